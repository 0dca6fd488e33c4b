package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riadice/riadice-backend/internal/app/service"
	apperrors "github.com/riadice/riadice-backend/internal/errors"
)

type SettingController struct {
	settingService service.SettingService
}

func NewSettingController(settingService service.SettingService) *SettingController {
	return &SettingController{settingService: settingService}
}

type UpsertSettingRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// List GET /admin/settings
func (ctrl *SettingController) List(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	settings, err := ctrl.settingService.List(session)
	if err != nil {
		respondError(c, err, "list settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": settings, "count": len(settings)})
}

// Upsert PUT /admin/settings/:key {"value": {...}}
func (ctrl *SettingController) Upsert(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "value is required")
		return
	}

	setting, err := ctrl.settingService.Upsert(session, c.Param("key"), req.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSettingKey):
			apperrors.BadRequest(c, apperrors.SettingInvalidKey, "Setting keys use lower-case letters, digits and underscores")
		case errors.Is(err, service.ErrInvalidSettingValue):
			apperrors.BadRequest(c, apperrors.SettingInvalidValue, err.Error())
		default:
			respondError(c, err, "update setting")
		}
		return
	}
	c.JSON(http.StatusOK, setting)
}

// Public GET /public/settings
func (ctrl *SettingController) Public(c *gin.Context) {
	settings, err := ctrl.settingService.Public()
	if err != nil {
		respondError(c, err, "load settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
