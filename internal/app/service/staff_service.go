package service

import (
	"errors"
	"fmt"

	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrLastAdmin       = errors.New("cannot remove the last admin")
	ErrProfileMissing  = errors.New("staff profile is missing")
	ErrSelfDelete      = errors.New("admins cannot delete their own account")
	ErrAccountNotFound = errors.New("staff account not found")
	ErrInvalidRole     = errors.New("role must be admin or staff")
)

// StaffMember is a profile plus the actions the client may offer for it.
type StaffMember struct {
	model.Profile
	CanPromote bool `json:"can_promote"`
	CanDemote  bool `json:"can_demote"`
	CanDelete  bool `json:"can_delete"`
}

type CreateStaffRequest struct {
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      model.Role `json:"role"`
}

// StaffService manages accounts. Every method is admin only.
type StaffService interface {
	List(actor access.Session) ([]StaffMember, error)
	Create(actor access.Session, req CreateStaffRequest) (*model.Profile, error)
	ChangeRole(actor access.Session, userID string, role model.Role) (*model.Profile, error)
	Delete(actor access.Session, userID string) error
}

type staffService struct {
	db           *gorm.DB
	authService  AuthService
	roleRepo     repository.RoleRepository
	profileRepo  repository.ProfileRepository
	identityRepo repository.IdentityRepository
}

func NewStaffService(
	db *gorm.DB,
	authService AuthService,
	roleRepo repository.RoleRepository,
	profileRepo repository.ProfileRepository,
	identityRepo repository.IdentityRepository,
) StaffService {
	return &staffService{
		db:           db,
		authService:  authService,
		roleRepo:     roleRepo,
		profileRepo:  profileRepo,
		identityRepo: identityRepo,
	}
}

func (s *staffService) List(actor access.Session) ([]StaffMember, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	profiles, err := s.profileRepo.List()
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	admins, err := s.profileRepo.CountByRole(model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}

	members := make([]StaffMember, 0, len(profiles))
	for _, p := range profiles {
		isAdmin := p.Role == model.RoleAdmin
		members = append(members, StaffMember{
			Profile:    p,
			CanPromote: !isAdmin,
			CanDemote:  isAdmin && admins > 1,
			CanDelete:  p.UserID != actor.UserID && (!isAdmin || admins > 1),
		})
	}
	return members, nil
}

func (s *staffService) Create(actor access.Session, req CreateStaffRequest) (*model.Profile, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if req.Role == "" {
		req.Role = model.RoleStaff
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}

	identity, err := s.authService.CreateUser(req.Email, req.Password, model.IdentityMetadata{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Staff account created", map[string]interface{}{
		"user_id":  identity.ID,
		"role":     req.Role,
		"actor_id": actor.UserID,
	})

	profile, err := s.profileRepo.FindByUserID(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("load new profile: %w", err)
	}
	return profile, nil
}

// ensureAdminRemains refuses to take admin away from userID when it is the only admin.
// admins must come from LockAdmins inside the same transaction.
func ensureAdminRemains(admins []string, userID string) error {
	if len(admins) > 1 {
		return nil
	}
	for _, id := range admins {
		if id == userID {
			return ErrLastAdmin
		}
	}
	return nil
}

func (s *staffService) ChangeRole(actor access.Session, userID string, role model.Role) (profile *model.Profile, err error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	logger.Info("Changing staff role", map[string]interface{}{
		"user_id":  userID,
		"role":     role,
		"actor_id": actor.UserID,
	})

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
		if err != nil {
			tx.Rollback()
		}
	}()

	roles := s.roleRepo.WithTx(tx)
	profiles := s.profileRepo.WithTx(tx)

	admins, err := roles.LockAdmins()
	if err != nil {
		return nil, fmt.Errorf("lock admins: %w", err)
	}

	current, err := roles.FindByUserID(userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, err = s.identityRepo.WithTx(tx).FindByID(userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccountNotFound
			}
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("load role: %w", err)
	case current.Role == role:
		if profile, err = profiles.FindByUserID(userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProfileMissing
			}
			return nil, err
		}
		err = tx.Commit().Error
		return profile, err
	}

	if role != model.RoleAdmin {
		if err = ensureAdminRemains(admins, userID); err != nil {
			logger.Warn("Refused to demote the last admin", map[string]interface{}{
				"user_id":  userID,
				"actor_id": actor.UserID,
			})
			return nil, err
		}
	}

	if err = roles.Upsert(userID, role); err != nil {
		return nil, fmt.Errorf("upsert role: %w", err)
	}
	if err = profiles.UpdateRole(userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = ErrProfileMissing
			return nil, err
		}
		return nil, fmt.Errorf("update profile role: %w", err)
	}

	if profile, err = profiles.FindByUserID(userID); err != nil {
		return nil, err
	}
	if err = tx.Commit().Error; err != nil {
		return nil, err
	}

	logger.Info("Staff role changed", map[string]interface{}{
		"user_id":  userID,
		"role":     role,
		"actor_id": actor.UserID,
	})
	return profile, nil
}

func (s *staffService) Delete(actor access.Session, userID string) (err error) {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if userID == actor.UserID {
		return ErrSelfDelete
	}

	logger.Info("Deleting staff account", map[string]interface{}{
		"user_id":  userID,
		"actor_id": actor.UserID,
	})

	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
		if err != nil {
			tx.Rollback()
		}
	}()

	admins, err := s.roleRepo.WithTx(tx).LockAdmins()
	if err != nil {
		return fmt.Errorf("lock admins: %w", err)
	}
	if err = ensureAdminRemains(admins, userID); err != nil {
		logger.Warn("Refused to delete the last admin", map[string]interface{}{
			"user_id":  userID,
			"actor_id": actor.UserID,
		})
		return err
	}

	if err = s.authService.DeleteUser(tx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			err = ErrAccountNotFound
		}
		return err
	}

	if err = tx.Commit().Error; err != nil {
		return err
	}

	logger.Info("Staff account deleted", map[string]interface{}{
		"user_id":  userID,
		"actor_id": actor.UserID,
	})
	return nil
}
