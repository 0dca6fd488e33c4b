package model

// RoleAssignment is the authoritative role of an identity, one row per user.
type RoleAssignment struct {
	Base
	UserID string `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Role   Role   `gorm:"type:varchar(20);not null;index" json:"role"`
}

func (RoleAssignment) TableName() string {
	return "role_assignments"
}
