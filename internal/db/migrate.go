package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/pkg/logger"
	"github.com/riadice/riadice-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table in migration order
func Models() []interface{} {
	return []interface{}{
		&model.Identity{},
		&model.RoleAssignment{},
		&model.Profile{},
		&model.MenuItem{},
		&model.Special{},
		&model.GalleryImage{},
		&model.Reservation{},
		&model.Setting{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// BootstrapAdmin makes sure at least one admin exists.
// It does nothing when an admin is already present or no credentials are configured.
func BootstrapAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		logger.Info("No bootstrap admin configured, skipping...")
		return nil
	}

	var admins int64
	if err := db.Model(&model.RoleAssignment{}).Where("role = ?", model.RoleAdmin).Count(&admins).Error; err != nil {
		return err
	}
	if admins > 0 {
		logger.Info("Admin already present, skipping bootstrap", map[string]interface{}{
			"admin_count": admins,
		})
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing model.Identity
		err := tx.Where("email = ?", email).First(&existing).Error
		switch {
		case err == nil:
			// promote the existing account rather than failing on the unique email
			if err := tx.Model(&model.RoleAssignment{}).Where("user_id = ?", existing.ID).
				Update("role", model.RoleAdmin).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Profile{}).Where("user_id = ?", existing.ID).
				Update("role", model.RoleAdmin).Error; err != nil {
				return err
			}
			logger.Info("Promoted existing account to bootstrap admin", map[string]interface{}{
				"user_id": existing.ID,
				"email":   email,
			})
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		hash, err := util.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash bootstrap admin password: %w", err)
		}

		now := time.Now()
		admin := &model.Identity{
			Email:            email,
			PasswordHash:     hash,
			EmailConfirmedAt: &now,
			Metadata: model.IdentityMetadata{
				FirstName: "Admin",
				Role:      model.RoleAdmin,
			},
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}

		logger.Info("Bootstrap admin created", map[string]interface{}{
			"user_id": admin.ID,
			"email":   email,
		})
		return nil
	})
}
