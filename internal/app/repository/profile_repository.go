package repository

import (
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	WithTx(tx *gorm.DB) ProfileRepository
	List() ([]model.Profile, error)
	FindByUserID(userID string) (*model.Profile, error)
	CountByRole(role model.Role) (int64, error)
	// UpdateRole returns gorm.ErrRecordNotFound when the user has no profile.
	UpdateRole(userID string, role model.Role) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) WithTx(tx *gorm.DB) ProfileRepository {
	return &profileRepository{db: tx}
}

func (r *profileRepository) List() ([]model.Profile, error) {
	logger.Debug("Listing profiles from database")

	profiles := []model.Profile{}
	if err := r.db.Order("created_at DESC").Find(&profiles).Error; err != nil {
		logger.Error("Failed to list profiles from database", err)
		return nil, err
	}

	logger.Debug("Profiles listed from database", map[string]interface{}{
		"count": len(profiles),
	})
	return profiles, nil
}

func (r *profileRepository) FindByUserID(userID string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		logFindError("Failed to find profile in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) CountByRole(role model.Role) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Profile{}).Where("role = ?", role).Count(&count).Error; err != nil {
		logger.Error("Failed to count profiles by role", err, map[string]interface{}{
			"role": role,
		})
		return 0, err
	}
	return count, nil
}

func (r *profileRepository) UpdateRole(userID string, role model.Role) error {
	logger.Debug("Updating profile role in database", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})

	result := r.db.Model(&model.Profile{}).Where("user_id = ?", userID).Update("role", role)
	if result.Error != nil {
		logger.Error("Failed to update profile role", result.Error, map[string]interface{}{
			"user_id": userID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
