package model

type GalleryImage struct {
	Base
	Title      string          `json:"title"`
	ImageURL   string          `gorm:"not null" json:"image_url"`
	Category   GalleryCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	IsActive   bool            `gorm:"not null;index" json:"is_active"`
	IsFeatured bool            `gorm:"not null" json:"is_featured"`
	UploadedBy string          `gorm:"type:varchar(36)" json:"uploaded_by"` // identity id of the uploader
}

func (GalleryImage) TableName() string {
	return "gallery_images"
}
