package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riadice/riadice-backend/internal/app/service"
	apperrors "github.com/riadice/riadice-backend/internal/errors"
	"github.com/riadice/riadice-backend/internal/middleware"
	"github.com/riadice/riadice-backend/internal/storage"
)

type UploadController struct {
	uploadService service.UploadService
	maxBytes      int64
}

func NewUploadController(uploadService service.UploadService, maxBytes int64) *UploadController {
	return &UploadController{uploadService: uploadService, maxBytes: maxBytes}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		apperrors.RespondWithError(c, http.StatusRequestEntityTooLarge, apperrors.UploadFileTooLarge, "The image is too large")
	case errors.Is(err, storage.ErrInvalidFileType), errors.Is(err, storage.ErrCorruptImage):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG, GIF and WEBP images are allowed")
	case errors.Is(err, storage.ErrPresignNotSupported):
		apperrors.BadRequest(c, apperrors.UploadNotSupported, "Direct uploads are not available; use /admin/gallery/upload")
	default:
		middleware.GetLoggerFromContext(c).Error("Upload failed", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Upload failed. Please try again later")
	}
}

// UploadGalleryImage POST /admin/gallery/upload (multipart field "file")
func (ctrl *UploadController) UploadGalleryImage(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "file is required")
		return
	}
	if ctrl.maxBytes > 0 && fileHeader.Size > ctrl.maxBytes {
		respondUploadError(c, storage.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondUploadError(c, err)
		return
	}
	defer file.Close()

	// read one byte past the limit so oversized bodies are still caught
	limit := ctrl.maxBytes
	if limit <= 0 {
		limit = fileHeader.Size
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		respondUploadError(c, err)
		return
	}

	result, err := ctrl.uploadService.UploadGalleryImage(c.Request.Context(), session, fileHeader.Filename, data)
	if err != nil {
		respondUploadError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GeneratePresignedURL POST /admin/gallery/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "filename and content_type are required")
		return
	}

	resp, err := ctrl.uploadService.PresignGalleryUpload(session, req.Filename, req.ContentType)
	if err != nil {
		respondUploadError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
