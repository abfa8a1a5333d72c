package feedback

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"giftfinder/internal/middleware"
	"giftfinder/internal/pkg/response"
	"giftfinder/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Submit godoc
// @Summary Like or dislike a product
// @Description Records feedback on a product from a search result. Authentication is optional.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} response.Response{data=FeedbackResponse}
// @Failure 400,404,422,500 {object} response.Response
// @Router /feedback [post]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	var userID *int64
	if id, ok := middleware.UserID(c); ok {
		userID = &id
	}

	f, err := h.service.Submit(c.Request.Context(), &req, userID, c.ClientIP())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toResponse(f))
}

// Summary godoc
// @Summary Feedback totals for a product
// @Tags Feedback
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} response.Response{data=Summary}
// @Failure 404,500 {object} response.Response
// @Router /feedback/summary/{productId} [get]
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("productId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		response.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, ErrInvalidAction):
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process feedback")
	}
}
