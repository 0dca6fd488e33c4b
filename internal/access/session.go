package access

import (
	"errors"

	"github.com/riadice/riadice-backend/internal/app/model"
)

var ErrAdminOnly = errors.New("action restricted to admins")

// Session is the acting identity of one request, passed explicitly to services.
type Session struct {
	UserID string
	Email  string
	Role   model.Role
}

func (s Session) IsAdmin() bool {
	return s.Role == model.RoleAdmin
}

// IsStaffOrAdmin reports whether the session may enter the admin area.
func (s Session) IsStaffOrAdmin() bool {
	return s.Role == model.RoleAdmin || s.Role == model.RoleStaff
}

// RequireAdmin is the action-level gate for settings and staff management.
func (s Session) RequireAdmin() error {
	if !s.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}
