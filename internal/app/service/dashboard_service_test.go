package service

import (
	"fmt"
	"testing"

	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Stats(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	menu := repository.NewResourceRepository[model.MenuItem](testDB, "menu_items")
	specials := repository.NewResourceRepository[model.Special](testDB, "specials")
	gallery := repository.NewResourceRepository[model.GalleryImage](testDB, "gallery_images")
	reservations := repository.NewReservationRepository(testDB)

	require.NoError(t, menu.Create(&model.MenuItem{Name: "Msemen", Category: model.CategoryBreakfast, Price: decimal.NewFromInt(15), IsActive: true}))
	require.NoError(t, menu.Create(&model.MenuItem{Name: "Old dish", Category: model.CategoryTajines, Price: decimal.NewFromInt(50)}))
	require.NoError(t, specials.Create(&model.Special{Title: "Friday couscous", IsActive: true}))
	require.NoError(t, gallery.Create(&model.GalleryImage{ImageURL: "https://cdn.riadice.com/a.jpg", Category: model.GalleryDishes}))

	for i := 0; i < 7; i++ {
		status := model.StatusConfirmed
		if i%2 == 0 {
			status = model.StatusPending
		}
		seedReservation(t, reservations, fmt.Sprintf("Guest %d", i), "2025-09-08", status)
	}

	stats, err := NewDashboardService(menu, specials, gallery, reservations).Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ActiveMenuItems)
	assert.Equal(t, int64(1), stats.ActiveSpecials)
	assert.Equal(t, int64(0), stats.ActiveGalleryImages)
	assert.Equal(t, int64(4), stats.PendingReservations)
	assert.Len(t, stats.RecentReservations, 5)
	assert.NotNil(t, stats.RecentReservations[0].AllowedTransitions)
}
