package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/service"
	apperrors "github.com/riadice/riadice-backend/internal/errors"
)

type StaffController struct {
	staffService service.StaffService
}

func NewStaffController(staffService service.StaffService) *StaffController {
	return &StaffController{staffService: staffService}
}

type ChangeRoleRequest struct {
	Role model.Role `json:"role" binding:"required"`
}

func respondStaffError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrLastAdmin):
		apperrors.Conflict(c, apperrors.StaffLastAdmin, "At least one admin must remain")
	case errors.Is(err, service.ErrSelfDelete):
		apperrors.BadRequest(c, apperrors.StaffSelfDelete, "You cannot delete your own account")
	case errors.Is(err, service.ErrProfileMissing):
		apperrors.Conflict(c, apperrors.StaffProfileMissing, "This account has no profile; nothing was changed")
	case errors.Is(err, service.ErrInvalidRole):
		apperrors.BadRequest(c, apperrors.StaffInvalidRole, "Role must be admin or staff")
	case errors.Is(err, service.ErrAccountNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Account not found")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "This email is already registered")
	default:
		respondError(c, err, context)
	}
}

// List GET /admin/staff
func (ctrl *StaffController) List(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	members, err := ctrl.staffService.List(session)
	if err != nil {
		respondStaffError(c, err, "list staff")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": members, "count": len(members)})
}

// Create POST /admin/staff
func (ctrl *StaffController) Create(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req service.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Request body must be a JSON object")
		return
	}

	profile, err := ctrl.staffService.Create(session, req)
	if err != nil {
		respondStaffError(c, err, "create staff account")
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// ChangeRole PATCH /admin/staff/:user_id/role
func (ctrl *StaffController) ChangeRole(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "role is required")
		return
	}

	profile, err := ctrl.staffService.ChangeRole(session, c.Param("user_id"), req.Role)
	if err != nil {
		respondStaffError(c, err, "update staff role")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Delete DELETE /admin/staff/:user_id
func (ctrl *StaffController) Delete(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	if err := ctrl.staffService.Delete(session, c.Param("user_id")); err != nil {
		respondStaffError(c, err, "delete staff account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
