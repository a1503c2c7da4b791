package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"servicehub/internal/config"
)

const (
	MaxFileSize  int64 = 10 << 20
	MaxVideoSize int64 = 50 << 20
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrEmptyFile       = errors.New("file is empty")
	ErrUnavailable     = errors.New("file storage is unavailable")
)

var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
}

type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Storage interface {
	Save(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (*Object, error)
	Remove(ctx context.Context, key string) error
}

// Unavailable returns a Storage that rejects every call. It stands in when MinIO cannot be reached at startup.
func Unavailable() Storage {
	return unavailable{}
}

type unavailable struct{}

func (unavailable) Save(context.Context, string, string, string, io.Reader, int64) (*Object, error) {
	return nil, ErrUnavailable
}

func (unavailable) Remove(context.Context, string) error {
	return ErrUnavailable
}

// Validate checks a content type and size against the upload allowlist.
func Validate(contentType string, size int64) error {
	contentType = normalizeType(contentType)
	if _, ok := allowedTypes[contentType]; !ok {
		return ErrUnsupportedType
	}
	if size <= 0 {
		return ErrEmptyFile
	}
	limit := MaxFileSize
	if strings.HasPrefix(contentType, "video/") {
		limit = MaxVideoSize
	}
	if size > limit {
		return ErrFileTooLarge
	}
	return nil
}

func IsImage(contentType string) bool {
	return strings.HasPrefix(normalizeType(contentType), "image/")
}

func normalizeType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

type minioStorage struct {
	client *minio.Client
	cfg    *config.Config
}

func NewMinIOStorage(client *minio.Client, cfg *config.Config) Storage {
	return &minioStorage{client: client, cfg: cfg}
}

func (s *minioStorage) Save(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (*Object, error) {
	if err := Validate(contentType, size); err != nil {
		return nil, err
	}
	contentType = normalizeType(contentType)

	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = allowedTypes[contentType]
	}
	key := fmt.Sprintf("%s/%s/%s%s", folder, time.Now().UTC().Format("2006/01"), uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.cfg.MinIOBucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return &Object{
		Key:         key,
		URL:         s.publicURL(key),
		ContentType: contentType,
		Size:        size,
	}, nil
}

func (s *minioStorage) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.cfg.MinIOBucket, key, minio.RemoveObjectOptions{})
}

func (s *minioStorage) publicURL(key string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: s.cfg.MinIOPublicEndpoint, Path: "/" + s.cfg.MinIOBucket + "/" + key}
	return u.String()
}
