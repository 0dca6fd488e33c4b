package model

import (
	"time"

	"gorm.io/gorm"
)

// Identity is an authenticated principal (email + password).
type Identity struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	LastSignInAt     *time.Time `json:"last_sign_in_at,omitempty"`

	// Metadata is consumed by AfterCreate and never stored on this row
	Metadata IdentityMetadata `gorm:"-" json:"-"`
}

type IdentityMetadata struct {
	FirstName string
	LastName  string
	Role      Role
}

func (Identity) TableName() string {
	return "identities"
}

// AfterCreate provisions the role assignment and profile in the insert's transaction.
// An unknown requested role falls back to staff.
func (i *Identity) AfterCreate(tx *gorm.DB) error {
	role := i.Metadata.Role
	if !role.Valid() {
		role = RoleStaff
	}

	if err := tx.Create(&RoleAssignment{UserID: i.ID, Role: role}).Error; err != nil {
		return err
	}

	return tx.Create(&Profile{
		UserID:    i.ID,
		Email:     i.Email,
		FirstName: i.Metadata.FirstName,
		LastName:  i.Metadata.LastName,
		Role:      role,
	}).Error
}

// AfterDelete cascades to the role assignment and profile.
func (i *Identity) AfterDelete(tx *gorm.DB) error {
	if i.ID == "" {
		return nil
	}
	if err := tx.Where("user_id = ?", i.ID).Delete(&RoleAssignment{}).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", i.ID).Delete(&Profile{}).Error
}
