package model

type Reservation struct {
	Base
	CustomerName    string            `gorm:"not null" json:"customer_name"`
	CustomerPhone   string            `gorm:"not null" json:"customer_phone"`
	CustomerEmail   string            `json:"customer_email"`
	ReservationDate string            `gorm:"type:varchar(10);not null;index" json:"reservation_date"` // YYYY-MM-DD
	ReservationTime string            `gorm:"type:varchar(5);not null" json:"reservation_time"`        // HH:MM
	NumberOfGuests  int               `gorm:"not null" json:"number_of_guests"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	SpecialRequests string            `json:"special_requests"`

	AllowedTransitions []ReservationStatus `gorm:"-" json:"allowed_transitions"`
}

func (Reservation) TableName() string {
	return "reservations"
}
