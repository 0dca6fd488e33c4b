package repository

import (
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReservationRepository adds status and calendar queries on top of the generic row CRUD.
type ReservationRepository interface {
	ResourceRepository[model.Reservation]
	// UpdateStatusIfCurrent moves id from -> to only if it is still in from; it returns the rows changed.
	UpdateStatusIfCurrent(id string, from, to model.ReservationStatus) (int64, error)
	CountUpcoming(today string) (int64, error)
	ListBetween(fromDate, toDate string) ([]model.Reservation, error)
}

type reservationRepository struct {
	ResourceRepository[model.Reservation]
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{
		ResourceRepository: NewResourceRepository[model.Reservation](db, "reservations"),
		db:                 db,
	}
}

func (r *reservationRepository) UpdateStatusIfCurrent(id string, from, to model.ReservationStatus) (int64, error) {
	logger.Debug("Updating reservation status in database", map[string]interface{}{
		"reservation_id": id,
		"from":           from,
		"to":             to,
	})

	result := r.db.Model(&model.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		logger.Error("Failed to update reservation status", result.Error, map[string]interface{}{
			"reservation_id": id,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountUpcoming counts confirmed reservations on or after today (YYYY-MM-DD).
func (r *reservationRepository) CountUpcoming(today string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Reservation{}).
		Where("status = ? AND reservation_date >= ?", model.StatusConfirmed, today).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count upcoming reservations", err)
		return 0, err
	}
	return count, nil
}

// ListBetween returns reservations dated within [fromDate, toDate], in service order.
func (r *reservationRepository) ListBetween(fromDate, toDate string) ([]model.Reservation, error) {
	reservations := []model.Reservation{}
	err := r.db.
		Where("reservation_date >= ? AND reservation_date <= ?", fromDate, toDate).
		Order("reservation_date ASC, reservation_time ASC").
		Find(&reservations).Error
	if err != nil {
		logger.Error("Failed to list reservations by date", err, map[string]interface{}{
			"from": fromDate,
			"to":   toDate,
		})
		return nil, err
	}
	return reservations, nil
}
