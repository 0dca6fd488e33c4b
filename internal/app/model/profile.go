package model

// Profile is the display record of a staff account. Role mirrors RoleAssignment.Role.
type Profile struct {
	Base
	UserID    string `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Email     string `gorm:"size:255" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `gorm:"type:varchar(20);not null;index" json:"role"`
}

func (Profile) TableName() string {
	return "profiles"
}
