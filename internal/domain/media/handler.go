package media

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

// Upload godoc
// @Summary Upload a media file
// @Description Stores an image, video or PDF. JPEG, PNG and GIF images also get a thumbnail and responsive sizes.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param alt formData string false "Alt text (max 200)"
// @Param caption formData string false "Caption (max 500)"
// @Param folder formData string false "Folder (max 100)"
// @Success 201 {object} response.Response{data=MediaResponse}
// @Failure 400,401,413,422,500 {object} response.Response
// @Router /media [post]
func (h *Handler) Upload(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "FILE_REQUIRED", "No file provided")
		return
	}

	var form UploadMediaForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid form fields")
		return
	}
	if errs := validator.Validate(&form); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	m, err := h.service.Upload(c.Request.Context(), userID, fileHeader, form)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToResponse(m))
}

// List godoc
// @Summary List media
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param folder query string false "Folder"
// @Param mimeType query string false "MIME type prefix, e.g. image/"
// @Success 200 {object} response.Response{data=PaginatedMediaResponse}
// @Failure 400,401,422,500 {object} response.Response
// @Router /media [get]
func (h *Handler) List(c *gin.Context) {
	var q ListMediaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters")
		return
	}
	if errs := validator.Validate(&q); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Get godoc
// @Summary Get media by ID
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media ID"
// @Success 200 {object} response.Response{data=MediaResponse}
// @Failure 401,404,500 {object} response.Response
// @Router /media/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	m, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(m))
}

// Update godoc
// @Summary Update media metadata
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media ID"
// @Param request body UpdateMediaRequest true "Fields to change"
// @Success 200 {object} response.Response{data=MediaResponse}
// @Failure 400,401,403,404,422,500 {object} response.Response
// @Router /media/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req UpdateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	m, err := h.service.Update(c.Request.Context(), c.Param("id"), userID, middleware.IsAdmin(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(m))
}

// Delete godoc
// @Summary Delete media
// @Description Removes the file, its thumbnail and sizes, then the record.
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media ID"
// @Success 200 {object} response.Response
// @Failure 401,403,404,500 {object} response.Response
// @Router /media/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), userID, middleware.IsAdmin(c)); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMediaNotFound):
		response.Error(c, http.StatusNotFound, "MEDIA_NOT_FOUND", "Media not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only modify your own media")
	case errors.Is(err, ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "EMPTY_FILE", "File is empty")
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the maximum allowed size")
	case errors.Is(err, ErrInvalidMimeType):
		response.Error(c, http.StatusBadRequest, "INVALID_MIME_TYPE", "File type is not allowed")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Media operation failed")
	}
}
