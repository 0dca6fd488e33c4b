package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrInvalidFileType = errors.New("only JPEG, PNG, GIF and WEBP images are allowed")
	ErrCorruptImage    = errors.New("image could not be decoded")
)

// AllowedImageTypes maps accepted content types to file extensions
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ImageInfo struct {
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// ValidateImage checks size, sniffs the real content type and decodes the image header.
func ValidateImage(data []byte, maxBytes int64) (*ImageInfo, error) {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	ext, ok := AllowedImageTypes[mtype.String()]
	if !ok {
		return nil, fmt.Errorf("%w (got %s)", ErrInvalidFileType, mtype.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}

	return &ImageInfo{
		ContentType: mtype.String(),
		Ext:         ext,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// ValidateContentType checks a browser-declared content type for presigned uploads
func ValidateContentType(contentType string) error {
	if _, ok := AllowedImageTypes[contentType]; !ok {
		return fmt.Errorf("%w (got %s)", ErrInvalidFileType, contentType)
	}
	return nil
}
