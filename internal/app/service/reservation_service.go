package service

import (
	"errors"
	"fmt"
	"io"

	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/internal/statemachine"
	"github.com/riadice/riadice-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrInvalidTransition  = errors.New("invalid reservation status transition")
	ErrTransitionConflict = errors.New("reservation status was changed by another session")
	ErrInvalidStatus      = errors.New("unknown reservation status")
)

// ReservationSummary backs the header cards of the reservations view.
type ReservationSummary struct {
	Pending  int64 `json:"pending"`
	Upcoming int64 `json:"upcoming"`
}

// ReservationDigest is the read-only view of one service day.
type ReservationDigest struct {
	Date         string              `json:"date"`
	Total        int                 `json:"total"`
	Guests       int                 `json:"guests"`
	ByStatus     map[string]int      `json:"by_status"`
	Reservations []model.Reservation `json:"reservations"`
}

type ReservationService interface {
	ChangeStatus(actor access.Session, id string, to model.ReservationStatus) (*model.Reservation, error)
	// Summary counts pending reservations and confirmed ones dated today (YYYY-MM-DD) or later.
	Summary(today string) (*ReservationSummary, error)
	ExportXLSX(w io.Writer) error
	Digest(date string) (*ReservationDigest, error)
}

type reservationService struct {
	repo repository.ReservationRepository
}

func NewReservationService(repo repository.ReservationRepository) ReservationService {
	return &reservationService{repo: repo}
}

func (s *reservationService) ChangeStatus(actor access.Session, id string, to model.ReservationStatus) (*model.Reservation, error) {
	logger.Info("Changing reservation status", map[string]interface{}{
		"reservation_id": id,
		"to":             to,
		"actor_id":       actor.UserID,
	})

	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}

	current, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("load reservation: %w", err)
	}

	if err := statemachine.CanTransition(current.Status, to); err != nil {
		logger.Warn("Reservation transition rejected", map[string]interface{}{
			"reservation_id": id,
			"from":           current.Status,
			"to":             to,
		})
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	affected, err := s.repo.UpdateStatusIfCurrent(id, current.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update reservation status: %w", err)
	}
	if affected == 0 {
		logger.Warn("Reservation status changed concurrently", map[string]interface{}{
			"reservation_id": id,
			"expected":       current.Status,
		})
		return nil, ErrTransitionConflict
	}

	logger.Info("Reservation status changed", map[string]interface{}{
		"reservation_id": id,
		"from":           current.Status,
		"to":             to,
		"actor_id":       actor.UserID,
	})

	updated, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("reload reservation: %w", err)
	}
	updated.AllowedTransitions = statemachine.ValidTransitionsFrom(updated.Status)
	return updated, nil
}

func (s *reservationService) Summary(today string) (*ReservationSummary, error) {
	pending, err := s.repo.Count(map[string]interface{}{"status": model.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("count pending reservations: %w", err)
	}
	upcoming, err := s.repo.CountUpcoming(today)
	if err != nil {
		return nil, fmt.Errorf("count upcoming reservations: %w", err)
	}
	return &ReservationSummary{Pending: pending, Upcoming: upcoming}, nil
}

var exportHeaders = []interface{}{
	"Date", "Time", "Name", "Phone", "Email", "Guests", "Status", "Special requests", "Created at",
}

func (s *reservationService) ExportXLSX(w io.Writer) error {
	reservations, err := s.repo.List(repository.ListQuery{Order: "reservation_date ASC, reservation_time ASC"})
	if err != nil {
		return fmt.Errorf("list reservations: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reservations"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return err
	}

	for i, r := range reservations {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.ReservationDate,
			r.ReservationTime,
			r.CustomerName,
			r.CustomerPhone,
			r.CustomerEmail,
			r.NumberOfGuests,
			string(r.Status),
			r.SpecialRequests,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	logger.Info("Reservations exported", map[string]interface{}{
		"count": len(reservations),
	})
	return f.Write(w)
}

func (s *reservationService) Digest(date string) (*ReservationDigest, error) {
	reservations, err := s.repo.ListBetween(date, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations for %s: %w", date, err)
	}

	digest := &ReservationDigest{
		Date:         date,
		Total:        len(reservations),
		ByStatus:     map[string]int{},
		Reservations: reservations,
	}
	for _, r := range reservations {
		digest.ByStatus[string(r.Status)]++
		if r.Status != model.StatusCancelled {
			digest.Guests += r.NumberOfGuests
		}
	}
	return digest, nil
}
