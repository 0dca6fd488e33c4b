package model

// Special is a dated or weekly promotion. Dates are YYYY-MM-DD; empty means open-ended.
type Special struct {
	Base
	Title             string  `gorm:"not null" json:"title"`
	TitleArabic       string  `json:"title_arabic"`
	Description       string  `json:"description"`
	DescriptionArabic string  `json:"description_arabic"`
	ImageURL          string  `json:"image_url"`
	StartDate         string  `gorm:"type:varchar(10)" json:"start_date"`
	EndDate           string  `gorm:"type:varchar(10)" json:"end_date"`
	DayOfWeek         Weekday `gorm:"type:varchar(10)" json:"day_of_week"`
	IsActive          bool    `gorm:"not null;index" json:"is_active"`
}

func (Special) TableName() string {
	return "specials"
}
