package media

import "time"

// Media is an uploaded file. Raster images also carry a thumbnail and
// responsive variants; the storage keys are kept so every object can be
// removed with the record.
type Media struct {
	ID           string            `json:"id" gorm:"primaryKey;size:36"`
	Filename     string            `json:"filename" gorm:"size:255;not null"`
	OriginalName string            `json:"originalName" gorm:"size:255"`
	MimeType     string            `json:"mimeType" gorm:"size:100;index;not null"`
	Size         int64             `json:"size"`
	URL          string            `json:"url" gorm:"not null"`
	StorageKey   string            `json:"-" gorm:"size:512;not null"`
	ThumbnailURL string            `json:"thumbnailUrl,omitempty"`
	ThumbnailKey string            `json:"-" gorm:"size:512"`
	Sizes        map[string]string `json:"sizes,omitempty" gorm:"serializer:json"`
	SizeKeys     []string          `json:"-" gorm:"serializer:json"`
	Width        *int              `json:"width,omitempty"`
	Height       *int              `json:"height,omitempty"`
	Alt          string            `json:"alt,omitempty" gorm:"size:200"`
	Caption      string            `json:"caption,omitempty" gorm:"size:500"`
	Folder       string            `json:"folder,omitempty" gorm:"size:100;index"`
	UploadedBy   int64             `json:"uploadedBy" gorm:"index;not null"`
	CreatedAt    time.Time         `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func (Media) TableName() string { return "media" }

// storageKeys lists every stored object of the record.
func (m *Media) storageKeys() []string {
	keys := make([]string, 0, 2+len(m.SizeKeys))
	keys = append(keys, m.StorageKey)
	if m.ThumbnailKey != "" {
		keys = append(keys, m.ThumbnailKey)
	}
	return append(keys, m.SizeKeys...)
}
