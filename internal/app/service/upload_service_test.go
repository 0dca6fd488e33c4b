package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riadice/riadice-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadService_UploadGalleryImage(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	uploads := NewUploadService(store, 1<<20)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 5))))

	result, err := uploads.UploadGalleryImage(context.Background(), staffActor, "terrace.png", buf.Bytes())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Key, "gallery/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "http://localhost:8080/uploads/"+result.Key, result.ImageURL)
	assert.Equal(t, 8, result.Width)
	assert.Equal(t, 5, result.Height)

	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(result.Key)))
	assert.NoError(t, err)

	_, err = uploads.UploadGalleryImage(context.Background(), staffActor, "notes.txt", []byte("plain text"))
	assert.ErrorIs(t, err, storage.ErrInvalidFileType)

	_, err = uploads.PresignGalleryUpload(staffActor, "terrace.png", "image/png")
	assert.ErrorIs(t, err, storage.ErrPresignNotSupported)
}
