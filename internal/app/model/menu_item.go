package model

import "github.com/shopspring/decimal"

type MenuItem struct {
	Base
	Name              string          `gorm:"not null" json:"name"`
	NameArabic        string          `json:"name_arabic"`
	Description       string          `json:"description"`
	DescriptionArabic string          `json:"description_arabic"`
	Category          MenuCategory    `gorm:"type:varchar(30);not null;index" json:"category"`
	Price             decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	ImageURL          string          `json:"image_url"`
	IsActive          bool            `gorm:"not null;index" json:"is_active"`
	IsSpecial         bool            `gorm:"not null" json:"is_special"`
	SpecialDay        Weekday         `gorm:"type:varchar(10)" json:"special_day"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
