package repository

import (
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleRepository reads and writes the authoritative role_assignments table.
type RoleRepository interface {
	WithTx(tx *gorm.DB) RoleRepository
	FindByUserID(userID string) (*model.RoleAssignment, error)
	// LockAdmins takes row locks on every admin assignment (a no-op on SQLite) and returns their user ids.
	LockAdmins() ([]string, error)
	CountAdmins() (int64, error)
	Upsert(userID string, role model.Role) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) WithTx(tx *gorm.DB) RoleRepository {
	return &roleRepository{db: tx}
}

func (r *roleRepository) FindByUserID(userID string) (*model.RoleAssignment, error) {
	logger.Debug("Finding role assignment in database", map[string]interface{}{
		"user_id": userID,
	})

	var assignment model.RoleAssignment
	if err := r.db.Where("user_id = ?", userID).First(&assignment).Error; err != nil {
		logFindError("Failed to find role assignment in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return &assignment, nil
}

func (r *roleRepository) LockAdmins() ([]string, error) {
	var ids []string
	err := r.db.Model(&model.RoleAssignment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("role = ?", model.RoleAdmin).
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		logger.Error("Failed to lock admin role assignments", err)
		return nil, err
	}
	return ids, nil
}

func (r *roleRepository) CountAdmins() (int64, error) {
	var count int64
	if err := r.db.Model(&model.RoleAssignment{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		logger.Error("Failed to count admins", err)
		return 0, err
	}
	return count, nil
}

// Upsert sets the role for userID, inserting the row when it is missing.
func (r *roleRepository) Upsert(userID string, role model.Role) error {
	logger.Debug("Upserting role assignment in database", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})

	assignment := &model.RoleAssignment{UserID: userID, Role: role}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(assignment).Error
	if err != nil {
		logger.Error("Failed to upsert role assignment", err, map[string]interface{}{
			"user_id": userID,
			"role":    role,
		})
		return err
	}
	return nil
}
