package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var staffActor = access.Session{UserID: "staff-1", Email: "staff@riadice.com", Role: model.RoleStaff}

// flakyRepo fails the next n Update calls and delegates everything else.
type flakyRepo[T any] struct {
	repository.ResourceRepository[T]
	failures int
}

func (f *flakyRepo[T]) Update(item *T, columns []string) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("connection reset by peer")
	}
	return f.ResourceRepository.Update(item, columns)
}

func payload(t *testing.T, v map[string]interface{}) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(v))
	for k, val := range v {
		raw, err := json.Marshal(val)
		require.NoError(t, err)
		out[k] = raw
	}
	return out
}

func setupMenuService(t *testing.T) (*gorm.DB, ResourceService[model.MenuItem]) {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	repo := repository.NewResourceRepository[model.MenuItem](testDB, "menu_items")
	return testDB, NewResourceService(repo, MenuItemDescriptor())
}

func TestResourceService_CreateValidation(t *testing.T) {
	_, menu := setupMenuService(t)

	tests := []struct {
		name       string
		draft      map[string]interface{}
		wantFields []string
	}{
		{
			name:       "Missing name and category",
			draft:      map[string]interface{}{"price": 10},
			wantFields: []string{"name", "category"},
		},
		{
			name:       "Missing price",
			draft:      map[string]interface{}{"name": "Couscous Royal", "category": "daily_specials"},
			wantFields: []string{"price"},
		},
		{
			name:       "Null price",
			draft:      map[string]interface{}{"name": "Couscous Royal", "category": "daily_specials", "price": nil},
			wantFields: []string{"price"},
		},
		{
			name:       "Negative price",
			draft:      map[string]interface{}{"name": "Harira", "category": "tajines", "price": -1},
			wantFields: []string{"price"},
		},
		{
			name:       "Unknown category and weekday",
			draft:      map[string]interface{}{"name": "Harira", "category": "soups", "price": 30, "special_day": "funday"},
			wantFields: []string{"category", "special_day"},
		},
		{
			name:       "Wrong JSON type",
			draft:      map[string]interface{}{"name": "Harira", "category": "tajines", "price": 30, "is_active": "yes"},
			wantFields: []string{"is_active"},
		},
		{
			name:       "Non editable column",
			draft:      map[string]interface{}{"name": "Harira", "category": "tajines", "price": 30, "id": "forced"},
			wantFields: []string{"id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := menu.Create(staffActor, payload(t, tt.draft))
			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			for _, f := range tt.wantFields {
				assert.Contains(t, ve.Fields, f)
			}
		})
	}

	items, err := menu.List(ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestResourceService_CreateDefaultsActive(t *testing.T) {
	_, menu := setupMenuService(t)

	item, err := menu.Create(staffActor, payload(t, map[string]interface{}{
		"name":     "Msemen",
		"category": "breakfast",
		"price":    "15.50",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.True(t, item.IsActive)
	assert.True(t, decimal.RequireFromString("15.5").Equal(item.Price))
	assert.Empty(t, item.NameArabic)
}

func TestResourceService_FailedUpdateLeavesRowUnchanged(t *testing.T) {
	testDB, _ := setupMenuService(t)
	flaky := &flakyRepo[model.MenuItem]{
		ResourceRepository: repository.NewResourceRepository[model.MenuItem](testDB, "menu_items"),
	}
	menu := NewResourceService[model.MenuItem](flaky, MenuItemDescriptor())

	created, err := menu.Create(staffActor, payload(t, map[string]interface{}{
		"name":     "Tajine Kefta",
		"category": "tajines",
		"price":    65,
	}))
	require.NoError(t, err)

	patch := payload(t, map[string]interface{}{"name": "Tajine Kefta aux oeufs", "price": 70})

	flaky.failures = 1
	_, err = menu.Update(staffActor, created.ID, patch)
	require.Error(t, err)

	stored, err := menu.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tajine Kefta", stored.Name)
	assert.True(t, decimal.NewFromInt(65).Equal(stored.Price))

	updated, err := menu.Update(staffActor, created.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Tajine Kefta aux oeufs", updated.Name)
	assert.True(t, decimal.NewFromInt(70).Equal(updated.Price))
	assert.Equal(t, model.CategoryTajines, updated.Category)
}

func TestResourceService_NullRequiredFieldOnUpdate(t *testing.T) {
	_, menu := setupMenuService(t)

	created, err := menu.Create(staffActor, payload(t, map[string]interface{}{
		"name":     "Pastilla",
		"category": "pastries",
		"price":    45,
	}))
	require.NoError(t, err)

	_, err = menu.Update(staffActor, created.ID, payload(t, map[string]interface{}{"price": nil}))
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, "is required", ve.Fields["price"])

	stored, err := menu.Get(created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(45).Equal(stored.Price))

	updated, err := menu.Update(staffActor, created.ID, payload(t, map[string]interface{}{"description": "sweet and savoury"}))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(45).Equal(updated.Price))
}

func TestResourceService_InvalidPatchIsNotWritten(t *testing.T) {
	_, menu := setupMenuService(t)

	created, err := menu.Create(staffActor, payload(t, map[string]interface{}{
		"name":     "Jus d'orange",
		"category": "juices",
		"price":    20,
	}))
	require.NoError(t, err)

	_, err = menu.Update(staffActor, created.ID, payload(t, map[string]interface{}{"name": "", "price": 25}))
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	_, err = menu.Update(staffActor, created.ID, map[string]json.RawMessage{})
	_, ok = AsValidationError(err)
	assert.True(t, ok)

	stored, err := menu.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jus d'orange", stored.Name)
	assert.True(t, decimal.NewFromInt(20).Equal(stored.Price))

	_, err = menu.Update(staffActor, "missing-id", payload(t, map[string]interface{}{"name": "x"}))
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestResourceService_GalleryFeaturedToggle(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	gallery := NewResourceService(
		repository.NewResourceRepository[model.GalleryImage](testDB, "gallery_images"),
		GalleryImageDescriptor(),
	)

	created, err := gallery.Create(staffActor, payload(t, map[string]interface{}{
		"title":     "Terrace at dusk",
		"image_url": "https://cdn.riadice.com/gallery/terrace.jpg",
		"category":  "exterior",
	}))
	require.NoError(t, err)
	assert.Equal(t, staffActor.UserID, created.UploadedBy)
	assert.False(t, created.IsFeatured)

	on, err := gallery.Toggle(staffActor, created.ID, "is_featured", true)
	require.NoError(t, err)
	assert.True(t, on.IsFeatured)

	off, err := gallery.Toggle(staffActor, created.ID, "is_featured", false)
	require.NoError(t, err)
	assert.False(t, off.IsFeatured)

	assert.Equal(t, created.Title, off.Title)
	assert.Equal(t, created.ImageURL, off.ImageURL)
	assert.Equal(t, created.Category, off.Category)
	assert.Equal(t, created.IsActive, off.IsActive)
	assert.Equal(t, created.UploadedBy, off.UploadedBy)

	_, err = gallery.Toggle(staffActor, created.ID, "title", true)
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	_, err = gallery.Toggle(staffActor, "missing-id", "is_active", false)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestResourceService_ActiveFlagControlsPublicListing(t *testing.T) {
	_, menu := setupMenuService(t)

	couscous, err := menu.Create(staffActor, payload(t, map[string]interface{}{
		"name":     "Couscous Royal",
		"category": "daily_specials",
		"price":    120,
	}))
	require.NoError(t, err)

	countByName := func(items []model.MenuItem) int {
		n := 0
		for _, it := range items {
			if it.Name == "Couscous Royal" {
				n++
			}
		}
		return n
	}

	admin, err := menu.List(ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, countByName(admin))

	public, err := menu.ListPublic()
	require.NoError(t, err)
	assert.Equal(t, 1, countByName(public))

	_, err = menu.Toggle(staffActor, couscous.ID, "is_active", false)
	require.NoError(t, err)

	public, err = menu.ListPublic()
	require.NoError(t, err)
	assert.Equal(t, 0, countByName(public))

	admin, err = menu.List(ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, countByName(admin))
}

func TestResourceService_DeleteTwice(t *testing.T) {
	_, menu := setupMenuService(t)

	keep, err := menu.Create(staffActor, payload(t, map[string]interface{}{"name": "Atay", "category": "coffee", "price": 12}))
	require.NoError(t, err)
	drop, err := menu.Create(staffActor, payload(t, map[string]interface{}{"name": "Nous nous", "category": "coffee", "price": 14}))
	require.NoError(t, err)

	require.NoError(t, menu.Delete(staffActor, drop.ID))
	assert.ErrorIs(t, menu.Delete(staffActor, drop.ID), ErrResourceNotFound)

	_, err = menu.Get(keep.ID)
	assert.NoError(t, err)
	_, err = menu.Get(drop.ID)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestResourceService_SpecialsAndReservations(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	specials := NewResourceService(repository.NewResourceRepository[model.Special](testDB, "specials"), SpecialDescriptor())
	_, err = specials.Create(staffActor, payload(t, map[string]interface{}{
		"title":      "Ramadan ftour",
		"start_date": "2025-03-10",
		"end_date":   "2025-03-01",
	}))
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "end_date")

	reservations := NewResourceService(
		repository.NewResourceRepository[model.Reservation](testDB, "reservations"),
		ReservationDescriptor(),
	)
	_, err = reservations.Create(staffActor, payload(t, map[string]interface{}{
		"customer_name":    "Amina",
		"customer_phone":   "+212600000000",
		"reservation_date": "2025-09-08",
		"reservation_time": "19:00",
		"number_of_guests": 4,
		"status":           "confirmed",
	}))
	ve, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "status")

	_, err = reservations.Create(staffActor, payload(t, map[string]interface{}{
		"customer_name":    "Amina",
		"customer_phone":   "+212600000000",
		"customer_email":   "Amina <amina@example.com>",
		"reservation_date": "2025-09-08",
		"reservation_time": "19:00",
		"number_of_guests": 4,
	}))
	ve, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "customer_email")

	res, err := reservations.Create(staffActor, payload(t, map[string]interface{}{
		"customer_name":    "Amina",
		"customer_phone":   "+212600000000",
		"reservation_date": "2025-09-08",
		"reservation_time": "19:00",
		"number_of_guests": 4,
	}))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.ElementsMatch(t, []model.ReservationStatus{model.StatusConfirmed, model.StatusCancelled}, res.AllowedTransitions)

	_, err = reservations.ListPublic()
	assert.ErrorIs(t, err, ErrNotPublic)
}
