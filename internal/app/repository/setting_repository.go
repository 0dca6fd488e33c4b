package repository

import (
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	List() ([]model.Setting, error)
	FindByKeys(keys []string) ([]model.Setting, error)
	FindByKey(key string) (*model.Setting, error)
	Upsert(setting *model.Setting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) List() ([]model.Setting, error) {
	settings := []model.Setting{}
	if err := r.db.Order("key ASC").Find(&settings).Error; err != nil {
		logger.Error("Failed to list settings", err)
		return nil, err
	}
	return settings, nil
}

func (r *settingRepository) FindByKeys(keys []string) ([]model.Setting, error) {
	settings := []model.Setting{}
	if err := r.db.Where("key IN ?", keys).Order("key ASC").Find(&settings).Error; err != nil {
		logger.Error("Failed to find settings by keys", err, map[string]interface{}{
			"keys": keys,
		})
		return nil, err
	}
	return settings, nil
}

func (r *settingRepository) FindByKey(key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		logFindError("Failed to find setting", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}
	return &setting, nil
}

// Upsert inserts or replaces the value stored under setting.Key.
func (r *settingRepository) Upsert(setting *model.Setting) error {
	logger.Debug("Upserting setting in database", map[string]interface{}{
		"key":        setting.Key,
		"updated_by": setting.UpdatedBy,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		logger.Error("Failed to upsert setting", err, map[string]interface{}{
			"key": setting.Key,
		})
		return err
	}
	return nil
}
