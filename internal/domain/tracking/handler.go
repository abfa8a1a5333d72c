package tracking

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"giftfinder/internal/pkg/response"
	"giftfinder/internal/pkg/validator"
)

// Handler exposes affiliate tracking over HTTP. It only extracts request
// data and delegates to Service.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RecordClick godoc
// @Summary Record an affiliate link click
// @Description Stores a click for the link with the caller's IP, user agent and referer, and returns the merchant URL.
// @Tags Tracking
// @Accept json
// @Produce json
// @Param linkId path string true "Affiliate link ID"
// @Param request body RecordClickRequest false "Optional click context"
// @Success 201 {object} response.Response{data=ClickResponse}
// @Failure 400,404,422,500 {object} response.Response
// @Router /tracking/click/{linkId} [post]
func (h *Handler) RecordClick(c *gin.Context) {
	var req RecordClickRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
			return
		}
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	click, link, err := h.service.RecordClick(c.Request.Context(), c.Param("linkId"), ClickInput{
		SearchID:  req.SearchID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrLinkNotFound), errors.Is(err, ErrLinkInactive):
			response.Error(c, http.StatusNotFound, "LINK_NOT_FOUND", "Affiliate link not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record click")
		}
		return
	}

	response.Success(c, http.StatusCreated, ClickResponse{
		ClickID:     click.ID,
		LinkID:      click.LinkID,
		ProductID:   click.ProductID,
		RedirectURL: link.URL,
		Duplicate:   click.Duplicate,
	})
}

// RecordConversion godoc
// @Summary Record a conversion
// @Description Attributes a merchant order to a previously recorded click.
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body RecordConversionRequest true "Conversion"
// @Success 201 {object} response.Response{data=Conversion}
// @Failure 400,404,409,422,500 {object} response.Response
// @Router /tracking/conversion [post]
func (h *Handler) RecordConversion(c *gin.Context) {
	var req RecordConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	conv, err := h.service.RecordConversion(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrClickNotFound):
			response.Error(c, http.StatusNotFound, "CLICK_NOT_FOUND", "Click not found")
		case errors.Is(err, ErrLinkNotFound):
			response.Error(c, http.StatusNotFound, "LINK_NOT_FOUND", "Affiliate link not found")
		case errors.Is(err, ErrDuplicateConversion):
			response.Error(c, http.StatusConflict, "DUPLICATE_CONVERSION", "Conversion already recorded for this order")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record conversion")
		}
		return
	}

	response.Success(c, http.StatusCreated, conv)
}

// GetStats godoc
// @Summary Product tracking stats
// @Description Clicks, unique visitors, conversions and revenue for a product.
// @Tags Tracking
// @Produce json
// @Param productId path string true "Product ID"
// @Param from query string false "Start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "End (RFC3339 or YYYY-MM-DD, inclusive)"
// @Success 200 {object} response.Response{data=ProductStats}
// @Failure 400,404,500 {object} response.Response
// @Router /tracking/stats/{productId} [get]
func (h *Handler) GetStats(c *gin.Context) {
	var q StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters")
		return
	}
	rng, err := ParseRange(q)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "from/to must be RFC3339 or YYYY-MM-DD and from <= to")
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), c.Param("productId"), rng)
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			response.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		case errors.Is(err, ErrInvalidRange):
			response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "from must not be after to")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load stats")
		}
		return
	}

	response.Success(c, http.StatusOK, stats)
}
