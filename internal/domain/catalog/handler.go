package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"giftfinder/internal/pkg/response"
	"giftfinder/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListProducts godoc
// @Summary List products
// @Tags Catalog
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param category query string false "Category"
// @Success 200 {object} response.Response{data=pagination.Page[domain.Product]}
// @Failure 400,422,500 {object} response.Response
// @Router /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	var q ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters")
		return
	}
	if errs := validator.Validate(&q); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	page, err := h.service.ListProducts(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// GetProduct godoc
// @Summary Get a product with its affiliate links
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.Response{data=domain.Product}
// @Failure 404,500 {object} response.Response
// @Router /products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Product"
// @Success 201 {object} response.Response{data=domain.Product}
// @Failure 400,401,403,422,500 {object} response.Response
// @Router /products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.service.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

// CreateLink godoc
// @Summary Add an affiliate link to a product
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body CreateLinkRequest true "Link"
// @Success 201 {object} response.Response{data=domain.AffiliateLink}
// @Failure 400,401,403,404,422,500 {object} response.Response
// @Router /products/{id}/links [post]
func (h *Handler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.service.CreateLink(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

// UpdateLink godoc
// @Summary Update an affiliate link
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Link ID"
// @Param request body UpdateLinkRequest true "Fields to change"
// @Success 200 {object} response.Response{data=domain.AffiliateLink}
// @Failure 400,401,403,404,422,500 {object} response.Response
// @Router /links/{id} [patch]
func (h *Handler) UpdateLink(c *gin.Context) {
	var req UpdateLinkRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.service.UpdateLink(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return false
	}
	if errs := validator.Validate(dst); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return false
	}
	return true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		response.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, ErrLinkNotFound):
		response.Error(c, http.StatusNotFound, "LINK_NOT_FOUND", "Affiliate link not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Catalog operation failed")
	}
}
