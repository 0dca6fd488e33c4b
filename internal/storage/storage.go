package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/riadice/riadice-backend/config"
)

var ErrPresignNotSupported = errors.New("presigned uploads require the s3 storage driver")

// ObjectStore is the binary blob side of the persistence gateway.
type ObjectStore interface {
	// Upload stores body under key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	PublicURL(key string) string
}

// Presigner hands browsers a direct-upload URL.
type Presigner interface {
	GeneratePresignedURLWithFolder(filename, contentType, folder string) (*PresignedURLResponse, error)
}

type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

// NewObjectKey returns "<folder>/<uuid><ext>"
func NewObjectKey(folder, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.New().String(), strings.ToLower(ext))
}

// New builds the store selected by cfg.Driver
func New(cfg *config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(cfg.Region, cfg.Bucket, cfg.AccessKeyID, cfg.SecretAccessKey, cfg.BaseURL), nil
	case "local", "":
		return NewLocalStorage(cfg.LocalDir, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
