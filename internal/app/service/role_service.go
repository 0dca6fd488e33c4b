package service

import (
	"errors"
	"fmt"

	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidIdentity = errors.New("identity id is required")

// RoleService resolves the role of an identity from role_assignments.
type RoleService interface {
	// Resolve returns RoleNone with a nil error when no assignment exists.
	// On any other failure it returns RoleNone together with the error.
	Resolve(userID string) (model.Role, error)
	IsAdmin(userID string) (bool, error)
	IsAdminOrStaff(userID string) (bool, error)
}

type roleService struct {
	roleRepo repository.RoleRepository
}

func NewRoleService(roleRepo repository.RoleRepository) RoleService {
	return &roleService{roleRepo: roleRepo}
}

func (s *roleService) Resolve(userID string) (model.Role, error) {
	if userID == "" {
		return model.RoleNone, ErrInvalidIdentity
	}

	assignment, err := s.roleRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("No role assignment for identity", map[string]interface{}{
				"user_id": userID,
			})
			return model.RoleNone, nil
		}
		logger.Error("Failed to resolve role", err, map[string]interface{}{
			"user_id": userID,
		})
		return model.RoleNone, fmt.Errorf("resolve role: %w", err)
	}

	if !assignment.Role.Valid() {
		logger.Warn("Stored role is not recognised, treating as none", map[string]interface{}{
			"user_id": userID,
			"role":    assignment.Role,
		})
		return model.RoleNone, nil
	}
	return assignment.Role, nil
}

func (s *roleService) IsAdmin(userID string) (bool, error) {
	role, err := s.Resolve(userID)
	return role == model.RoleAdmin, err
}

func (s *roleService) IsAdminOrStaff(userID string) (bool, error) {
	role, err := s.Resolve(userID)
	return role == model.RoleAdmin || role == model.RoleStaff, err
}
