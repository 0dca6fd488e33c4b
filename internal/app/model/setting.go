package model

import "gorm.io/datatypes"

// Setting is a keyed JSON document. Rows are upserted by key and never deleted.
type Setting struct {
	Base
	Key       string         `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedBy string         `gorm:"type:varchar(36)" json:"updated_by"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys and their value shapes
const (
	SettingContactInfo  = "contact_info"
	SettingOpeningHours = "opening_hours"
	SettingSocialLinks  = "social_links"
)

var PublicSettingKeys = []string{SettingContactInfo, SettingOpeningHours, SettingSocialLinks}

type ContactInfo struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	WhatsApp string `json:"whatsapp"`
}

type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// OpeningHours is keyed by lower-case weekday
type OpeningHours map[Weekday]DayHours

type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Website   string `json:"website"`
}
