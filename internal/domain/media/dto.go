package media

import (
	"time"

	"giftfinder/internal/pkg/pagination"
)

// UploadMediaForm holds the optional multipart fields sent with the file.
type UploadMediaForm struct {
	Alt     string `form:"alt" validate:"omitempty,max=200"`
	Caption string `form:"caption" validate:"omitempty,max=500"`
	Folder  string `form:"folder" validate:"omitempty,max=100"`
}

// UpdateMediaRequest is a partial update; nil fields are left unchanged.
type UpdateMediaRequest struct {
	Alt     *string `json:"alt" validate:"omitempty,max=200"`
	Caption *string `json:"caption" validate:"omitempty,max=500"`
	Folder  *string `json:"folder" validate:"omitempty,max=100"`
}

type ListMediaQuery struct {
	pagination.Query
	Folder   string `form:"folder" json:"folder" validate:"omitempty,max=100"`
	MimeType string `form:"mimeType" json:"mimeType" validate:"omitempty,max=100"`
}

type MediaResponse struct {
	ID           string            `json:"id"`
	Filename     string            `json:"filename"`
	OriginalName string            `json:"originalName"`
	MimeType     string            `json:"mimeType"`
	Size         int64             `json:"size"`
	URL          string            `json:"url"`
	ThumbnailURL string            `json:"thumbnailUrl,omitempty"`
	Sizes        map[string]string `json:"sizes,omitempty"`
	Width        *int              `json:"width,omitempty"`
	Height       *int              `json:"height,omitempty"`
	Alt          string            `json:"alt,omitempty"`
	Caption      string            `json:"caption,omitempty"`
	Folder       string            `json:"folder,omitempty"`
	UploadedBy   int64             `json:"uploadedBy"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type PaginatedMediaResponse = pagination.Page[MediaResponse]

func ToResponse(m *Media) MediaResponse {
	return MediaResponse{
		ID:           m.ID,
		Filename:     m.Filename,
		OriginalName: m.OriginalName,
		MimeType:     m.MimeType,
		Size:         m.Size,
		URL:          m.URL,
		ThumbnailURL: m.ThumbnailURL,
		Sizes:        m.Sizes,
		Width:        m.Width,
		Height:       m.Height,
		Alt:          m.Alt,
		Caption:      m.Caption,
		Folder:       m.Folder,
		UploadedBy:   m.UploadedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
