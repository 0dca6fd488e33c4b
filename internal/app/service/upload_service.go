package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/storage"
	"github.com/riadice/riadice-backend/pkg/logger"
)

const galleryFolder = "gallery"

type UploadResult struct {
	ImageURL string `json:"image_url"`
	Key      string `json:"key"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type UploadService interface {
	UploadGalleryImage(ctx context.Context, actor access.Session, filename string, data []byte) (*UploadResult, error)
	PresignGalleryUpload(actor access.Session, filename, contentType string) (*storage.PresignedURLResponse, error)
}

type uploadService struct {
	store    storage.ObjectStore
	maxBytes int64
}

func NewUploadService(store storage.ObjectStore, maxBytes int64) UploadService {
	return &uploadService{store: store, maxBytes: maxBytes}
}

func (s *uploadService) UploadGalleryImage(ctx context.Context, actor access.Session, filename string, data []byte) (*UploadResult, error) {
	info, err := storage.ValidateImage(data, s.maxBytes)
	if err != nil {
		logger.Warn("Gallery upload rejected", map[string]interface{}{
			"filename": filename,
			"size":     len(data),
			"actor_id": actor.UserID,
			"error":    err.Error(),
		})
		return nil, err
	}

	key := storage.NewObjectKey(galleryFolder, info.Ext)
	url, err := s.store.Upload(ctx, key, info.ContentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("store gallery image: %w", err)
	}

	logger.Info("Gallery image uploaded", map[string]interface{}{
		"key":      key,
		"filename": filename,
		"size":     len(data),
		"actor_id": actor.UserID,
	})
	return &UploadResult{ImageURL: url, Key: key, Width: info.Width, Height: info.Height}, nil
}

func (s *uploadService) PresignGalleryUpload(actor access.Session, filename, contentType string) (*storage.PresignedURLResponse, error) {
	presigner, ok := s.store.(storage.Presigner)
	if !ok {
		return nil, storage.ErrPresignNotSupported
	}
	if err := storage.ValidateContentType(contentType); err != nil {
		return nil, err
	}

	resp, err := presigner.GeneratePresignedURLWithFolder(filename, contentType, galleryFolder)
	if err != nil {
		return nil, fmt.Errorf("presign gallery upload: %w", err)
	}

	logger.Info("Presigned gallery upload issued", map[string]interface{}{
		"key":      resp.Key,
		"actor_id": actor.UserID,
	})
	return resp, nil
}
