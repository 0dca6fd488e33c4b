package repository

import (
	"errors"
	"time"

	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/pkg/logger"
	"gorm.io/gorm"
)

type IdentityRepository interface {
	WithTx(tx *gorm.DB) IdentityRepository
	Create(identity *model.Identity) error
	FindByID(id string) (*model.Identity, error)
	FindByEmail(email string) (*model.Identity, error)
	TouchLastSignIn(id string, at time.Time) error
	Delete(id string) error
}

type identityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *identityRepository) WithTx(tx *gorm.DB) IdentityRepository {
	return &identityRepository{db: tx}
}

// Create inserts the identity; its AfterCreate hook provisions role and profile in the same transaction.
func (r *identityRepository) Create(identity *model.Identity) error {
	logger.Debug("Creating identity in database", map[string]interface{}{
		"email": identity.Email,
		"role":  identity.Metadata.Role,
	})

	if err := r.db.Create(identity).Error; err != nil {
		logger.Error("Failed to create identity in database", err, map[string]interface{}{
			"email": identity.Email,
		})
		return err
	}

	logger.Debug("Identity created in database", map[string]interface{}{
		"user_id": identity.ID,
		"email":   identity.Email,
	})
	return nil
}

func (r *identityRepository) FindByID(id string) (*model.Identity, error) {
	logger.Debug("Finding identity by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var identity model.Identity
	if err := r.db.Where("id = ?", id).First(&identity).Error; err != nil {
		logFindError("Failed to find identity by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) FindByEmail(email string) (*model.Identity, error) {
	logger.Debug("Finding identity by email in database", map[string]interface{}{
		"email": email,
	})

	var identity model.Identity
	if err := r.db.Where("email = ?", email).First(&identity).Error; err != nil {
		logFindError("Failed to find identity by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) TouchLastSignIn(id string, at time.Time) error {
	return r.db.Model(&model.Identity{}).Where("id = ?", id).Update("last_sign_in_at", at).Error
}

// Delete removes the identity; its AfterDelete hook removes role and profile.
func (r *identityRepository) Delete(id string) error {
	logger.Debug("Deleting identity from database", map[string]interface{}{
		"user_id": id,
	})

	identity := &model.Identity{Base: model.Base{ID: id}}
	result := r.db.Delete(identity)
	if result.Error != nil {
		logger.Error("Failed to delete identity from database", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Identity deleted from database", map[string]interface{}{
		"user_id": id,
	})
	return nil
}

// logFindError keeps "no rows" at debug level; it is an expected outcome for lookups.
func logFindError(msg string, err error, fields map[string]interface{}) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg, fields)
		return
	}
	logger.Error(msg, err, fields)
}
