package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	valid := pngBytes(t, 4, 3)

	tests := []struct {
		name    string
		data    []byte
		max     int64
		wantErr error
	}{
		{name: "Valid PNG", data: valid, max: 1 << 20},
		{name: "Too large", data: valid, max: 10, wantErr: ErrFileTooLarge},
		{name: "Plain text", data: []byte("hello, not an image"), max: 1 << 20, wantErr: ErrInvalidFileType},
		{name: "Truncated PNG", data: valid[:20], max: 1 << 20, wantErr: ErrCorruptImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ValidateImage(tt.data, tt.max)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "image/png", info.ContentType)
			assert.Equal(t, ".png", info.Ext)
			assert.Equal(t, 4, info.Width)
			assert.Equal(t, 3, info.Height)
		})
	}
}

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, ValidateContentType("image/webp"))
	assert.ErrorIs(t, ValidateContentType("application/pdf"), ErrInvalidFileType)
}

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey("gallery", "PNG")
	assert.True(t, strings.HasPrefix(key, "gallery/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, NewObjectKey("gallery", ".png"))
}

func TestLocalStorage_Upload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	data := pngBytes(t, 2, 2)
	url, err := store.Upload(context.Background(), "gallery/test.png", "image/png", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/gallery/test.png", url)

	written, err := os.ReadFile(filepath.Join(dir, "gallery", "test.png"))
	require.NoError(t, err)
	assert.Equal(t, data, written)

	_, err = store.Upload(context.Background(), "../escape.png", "image/png", bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}
