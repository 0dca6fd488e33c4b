package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riadice/riadice-backend/internal/app/service"
	apperrors "github.com/riadice/riadice-backend/internal/errors"
	"github.com/riadice/riadice-backend/internal/middleware"
)

// ResourceController exposes a ResourceService over HTTP. label is the singular noun used in
// log and error contexts ("menu item", "special", ...).
type ResourceController[T any] struct {
	service service.ResourceService[T]
	label   string
	// listExtras adds sibling keys (e.g. summary cards) to the admin list response
	listExtras func() (gin.H, error)
}

func NewResourceController[T any](svc service.ResourceService[T], label string) *ResourceController[T] {
	return &ResourceController[T]{service: svc, label: label}
}

// WithListExtras merges the returned keys into every admin list response
func (ctrl *ResourceController[T]) WithListExtras(fn func() (gin.H, error)) *ResourceController[T] {
	ctrl.listExtras = fn
	return ctrl
}

type ToggleRequest struct {
	Field string `json:"field" binding:"required"`
	Value *bool  `json:"value" binding:"required"`
}

// List GET /admin/<resource>?view=
func (ctrl *ResourceController[T]) List(c *gin.Context) {
	items, err := ctrl.service.List(service.ListOptions{View: c.Query("view")})
	if err != nil {
		respondError(c, err, "list "+ctrl.label)
		return
	}

	resp := gin.H{"items": items, "count": len(items)}
	if ctrl.listExtras != nil {
		extras, err := ctrl.listExtras()
		if err != nil {
			respondError(c, err, "list "+ctrl.label)
			return
		}
		for k, v := range extras {
			resp[k] = v
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ListPublic serves the active-only listing to the public site
func (ctrl *ResourceController[T]) ListPublic(c *gin.Context) {
	items, err := ctrl.service.ListPublic()
	if err != nil {
		if errors.Is(err, service.ErrNotPublic) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Not found")
			return
		}
		respondError(c, err, "list "+ctrl.label)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// Get GET /admin/<resource>/:id
func (ctrl *ResourceController[T]) Get(c *gin.Context) {
	item, err := ctrl.service.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "load "+ctrl.label)
		return
	}
	c.JSON(http.StatusOK, item)
}

func bindPayload(c *gin.Context) (map[string]json.RawMessage, bool) {
	var payload map[string]json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid JSON body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Request body must be a JSON object")
		return nil, false
	}
	return payload, true
}

// Create POST /admin/<resource>
func (ctrl *ResourceController[T]) Create(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	draft, ok := bindPayload(c)
	if !ok {
		return
	}

	item, err := ctrl.service.Create(session, draft)
	if err != nil {
		respondError(c, err, "create "+ctrl.label)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update PATCH /admin/<resource>/:id
func (ctrl *ResourceController[T]) Update(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	patch, ok := bindPayload(c)
	if !ok {
		return
	}

	item, err := ctrl.service.Update(session, c.Param("id"), patch)
	if err != nil {
		respondError(c, err, "update "+ctrl.label)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Toggle PATCH /admin/<resource>/:id/toggle {"field": "is_active", "value": false}
func (ctrl *ResourceController[T]) Toggle(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "field and value are required")
		return
	}

	item, err := ctrl.service.Toggle(session, c.Param("id"), req.Field, *req.Value)
	if err != nil {
		respondError(c, err, "toggle "+ctrl.label)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete DELETE /admin/<resource>/:id
func (ctrl *ResourceController[T]) Delete(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(session, c.Param("id")); err != nil {
		respondError(c, err, "delete "+ctrl.label)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// Register mounts the CRUD routes on group
func (ctrl *ResourceController[T]) Register(group *gin.RouterGroup) {
	group.GET("", ctrl.List)
	group.GET("/:id", ctrl.Get)
	group.POST("", ctrl.Create)
	group.PATCH("/:id", ctrl.Update)
	group.PATCH("/:id/toggle", ctrl.Toggle)
	group.DELETE("/:id", ctrl.Delete)
}
