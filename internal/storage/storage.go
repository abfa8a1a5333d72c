// Package storage puts media objects on local disk or an S3 compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"giftfinder/internal/config"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Storage stores objects under slash separated keys and knows the public URL
// each key is served from.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
	Ping(ctx context.Context) error
}

// New builds the backend selected by MEDIA_STORAGE.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Storage, error) {
	switch cfg.MediaStorage {
	case config.StorageLocal:
		return NewLocalStorage(cfg.MediaLocalPath, cfg.MediaPublicBaseURL, log)
	case config.StorageS3:
		return NewS3Storage(ctx, S3Config{
			Endpoint:        cfg.S3Endpoint,
			PublicEndpoint:  cfg.S3PublicEndpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			UsePathStyle:    cfg.S3UsePathStyle,
		}, log)
	default:
		return nil, fmt.Errorf("unknown media storage %q", cfg.MediaStorage)
	}
}
