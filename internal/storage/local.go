package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalStorage writes objects below basePath. The HTTP server exposes that
// directory at baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
	log      zerolog.Logger
}

func NewLocalStorage(basePath, baseURL string, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("local storage path is empty")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create local storage directory: %w", err)
	}

	s := &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		log:      logger,
	}
	logger.Info().Str("path", basePath).Str("base_url", s.baseURL).Msg("local storage initialized")
	return s, nil
}

func (l *LocalStorage) BasePath() string { return l.basePath }

func (l *LocalStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	fullPath, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	written, err := io.Copy(file, body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return fmt.Errorf("write file: %w", err)
	}

	l.log.Debug().Str("key", key).Int64("bytes", written).Msg("object stored")
	return nil
}

// Delete removes the object. Missing files are not an error.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *LocalStorage) URL(key string) string {
	return l.baseURL + "/" + strings.TrimPrefix(key, "/")
}

func (l *LocalStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(l.basePath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", l.basePath)
	}
	return nil
}

// resolve maps a key to a path inside basePath, rejecting keys that escape it.
func (l *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(l.basePath, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
