package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"giftfinder/internal/metrics"
	"giftfinder/internal/pkg/pagination"
	"giftfinder/internal/storage"
)

const DefaultMaxBytes = 10 * 1024 * 1024

// AllowedMimeTypes is checked against the sniffed type, never the client's
// Content-Type.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"video/mp4":       true,
	"video/webm":      true,
	"application/pdf": true,
}

// Service stores uploads in the configured storage and keeps their metadata
// in the database.
type Service struct {
	repo     Repository
	storage  storage.Storage
	log      zerolog.Logger
	maxBytes int64
	nowFn    func() time.Time
}

func NewService(repo Repository, store storage.Storage, log zerolog.Logger, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{
		repo:     repo,
		storage:  store,
		log:      log.With().Str("component", "media").Logger(),
		maxBytes: maxBytes,
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

// Upload validates and stores a file with its image variants, then records
// it. Objects already written are removed if a later step fails.
func (s *Service) Upload(ctx context.Context, userID int64, fileHeader *multipart.FileHeader, form UploadMediaForm) (*Media, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	detected := mimetype.Detect(data)
	mimeType := strings.TrimSpace(strings.Split(detected.String(), ";")[0])
	if !AllowedMimeTypes[mimeType] {
		metrics.RecordUpload(mimeType, metrics.UploadRejected, 0)
		return nil, ErrInvalidMimeType
	}

	now := s.nowFn()
	id := uuid.NewString()
	ext := detected.Extension()
	base := fmt.Sprintf("%s_%s", id, sanitizeName(fileHeader.Filename))
	dir := fmt.Sprintf("media/%d/%02d/%02d", now.Year(), now.Month(), now.Day())

	m := &Media{
		ID:           id,
		Filename:     base + ext,
		OriginalName: filepath.Base(fileHeader.Filename),
		MimeType:     mimeType,
		Size:         int64(len(data)),
		StorageKey:   dir + "/" + base + ext,
		Alt:          strings.TrimSpace(form.Alt),
		Caption:      strings.TrimSpace(form.Caption),
		Folder:       strings.TrimSpace(form.Folder),
		UploadedBy:   userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var stored []string
	rollback := func() {
		s.removeObjects(context.WithoutCancel(ctx), stored)
	}

	if err := s.put(ctx, m.StorageKey, data, mimeType); err != nil {
		metrics.RecordUpload(mimeType, metrics.UploadError, 0)
		return nil, err
	}
	stored = append(stored, m.StorageKey)
	m.URL = s.storage.URL(m.StorageKey)

	if isProcessable(mimeType) {
		if err := s.storeVariants(ctx, m, data, dir, base, ext, &stored); err != nil {
			rollback()
			metrics.RecordUpload(mimeType, metrics.UploadError, 0)
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, m); err != nil {
		rollback()
		metrics.RecordUpload(mimeType, metrics.UploadError, 0)
		return nil, fmt.Errorf("save media record: %w", err)
	}

	metrics.RecordUpload(mimeType, metrics.UploadSuccess, m.Size)
	s.log.Info().
		Str("media_id", m.ID).
		Str("mime_type", mimeType).
		Int64("size", m.Size).
		Int64("user_id", userID).
		Msg("media uploaded")
	return m, nil
}

// storeVariants fills dimensions, thumbnail and sizes. An image that cannot
// be decoded is kept as a plain file.
func (s *Service) storeVariants(ctx context.Context, m *Media, data []byte, dir, base, ext string, stored *[]string) error {
	img, err := processImage(data, m.MimeType)
	if err != nil {
		s.log.Warn().Err(err).Str("media_id", m.ID).Msg("image variants skipped")
		return nil
	}
	m.Width, m.Height = &img.Width, &img.Height

	m.ThumbnailKey = dir + "/" + base + "_thumb" + ext
	if err := s.put(ctx, m.ThumbnailKey, img.Thumbnail, m.MimeType); err != nil {
		return err
	}
	*stored = append(*stored, m.ThumbnailKey)
	m.ThumbnailURL = s.storage.URL(m.ThumbnailKey)

	for _, w := range ResponsiveWidths {
		variant, ok := img.Sizes[w]
		if !ok {
			continue
		}
		key := fmt.Sprintf("%s/%s_%d%s", dir, base, w, ext)
		if err := s.put(ctx, key, variant, m.MimeType); err != nil {
			return err
		}
		*stored = append(*stored, key)
		if m.Sizes == nil {
			m.Sizes = make(map[string]string)
		}
		m.Sizes[strconv.Itoa(w)] = s.storage.URL(key)
		m.SizeKeys = append(m.SizeKeys, key)
	}
	return nil
}

func (s *Service) put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (s *Service) removeObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to remove stored object")
		}
	}
}

func (s *Service) Get(ctx context.Context, id string) (*Media, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, q ListMediaQuery) (PaginatedMediaResponse, error) {
	q.Normalize()
	q.Folder = strings.TrimSpace(q.Folder)
	q.MimeType = strings.TrimSpace(q.MimeType)

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return PaginatedMediaResponse{}, err
	}
	out := make([]MediaResponse, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i]))
	}
	return pagination.NewPage(out, total, q.Query), nil
}

// Update changes alt, caption and folder. Only the uploader or an admin may
// edit.
func (s *Service) Update(ctx context.Context, id string, userID int64, isAdmin bool, req *UpdateMediaRequest) (*Media, error) {
	m, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !isAdmin && m.UploadedBy != userID {
		return nil, ErrForbidden
	}

	if req.Alt != nil {
		m.Alt = strings.TrimSpace(*req.Alt)
	}
	if req.Caption != nil {
		m.Caption = strings.TrimSpace(*req.Caption)
	}
	if req.Folder != nil {
		m.Folder = strings.TrimSpace(*req.Folder)
	}
	m.UpdatedAt = s.nowFn()

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes every stored object of the media, then its record.
func (s *Service) Delete(ctx context.Context, id string, userID int64, isAdmin bool) error {
	m, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !isAdmin && m.UploadedBy != userID {
		return ErrForbidden
	}

	for _, key := range m.storageKeys() {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return s.repo.Delete(ctx, m.ID)
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if strings.Trim(name, "_") == "" {
		return "file"
	}
	return name
}
