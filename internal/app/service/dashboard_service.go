package service

import (
	"fmt"

	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/internal/statemachine"
)

const recentReservationsLimit = 5

type DashboardStats struct {
	ActiveMenuItems     int64               `json:"active_menu_items"`
	PendingReservations int64               `json:"pending_reservations"`
	ActiveSpecials      int64               `json:"active_specials"`
	ActiveGalleryImages int64               `json:"active_gallery_images"`
	RecentReservations  []model.Reservation `json:"recent_reservations"`
}

type DashboardService interface {
	Stats() (*DashboardStats, error)
}

type dashboardService struct {
	menu         repository.ResourceRepository[model.MenuItem]
	specials     repository.ResourceRepository[model.Special]
	gallery      repository.ResourceRepository[model.GalleryImage]
	reservations repository.ReservationRepository
}

func NewDashboardService(
	menu repository.ResourceRepository[model.MenuItem],
	specials repository.ResourceRepository[model.Special],
	gallery repository.ResourceRepository[model.GalleryImage],
	reservations repository.ReservationRepository,
) DashboardService {
	return &dashboardService{
		menu:         menu,
		specials:     specials,
		gallery:      gallery,
		reservations: reservations,
	}
}

func (s *dashboardService) Stats() (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)

	if stats.ActiveMenuItems, err = s.menu.Count(activeOnly); err != nil {
		return nil, fmt.Errorf("count menu items: %w", err)
	}
	if stats.ActiveSpecials, err = s.specials.Count(activeOnly); err != nil {
		return nil, fmt.Errorf("count specials: %w", err)
	}
	if stats.ActiveGalleryImages, err = s.gallery.Count(activeOnly); err != nil {
		return nil, fmt.Errorf("count gallery images: %w", err)
	}
	if stats.PendingReservations, err = s.reservations.Count(map[string]interface{}{"status": model.StatusPending}); err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	stats.RecentReservations, err = s.reservations.List(repository.ListQuery{
		Order: "created_at DESC",
		Limit: recentReservationsLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list recent reservations: %w", err)
	}
	for i := range stats.RecentReservations {
		r := &stats.RecentReservations[i]
		r.AllowedTransitions = statemachine.ValidTransitionsFrom(r.Status)
	}
	return &stats, nil
}
