package repository

import (
	"testing"

	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupMenuRepositoryTest(t *testing.T) (*gorm.DB, ResourceRepository[model.MenuItem]) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return testDB, NewResourceRepository[model.MenuItem](testDB, "menu_items")
}

func newMenuItem(name string, category model.MenuCategory, price int64) *model.MenuItem {
	return &model.MenuItem{
		Name:     name,
		Category: category,
		Price:    decimal.NewFromInt(price),
		IsActive: true,
	}
}

func TestResourceRepository_CreateAndFind(t *testing.T) {
	_, repo := setupMenuRepositoryTest(t)

	item := newMenuItem("Msemen", model.CategoryBreakfast, 15)
	require.NoError(t, repo.Create(item))
	assert.Len(t, item.ID, 36)

	found, err := repo.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Msemen", found.Name)
	assert.True(t, found.Price.Equal(decimal.NewFromInt(15)))

	_, err = repo.FindByID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestResourceRepository_ListOrderAndFilter(t *testing.T) {
	_, repo := setupMenuRepositoryTest(t)

	require.NoError(t, repo.Create(newMenuItem("Tajine Kefta", model.CategoryTajines, 70)))
	require.NoError(t, repo.Create(newMenuItem("Amlou Toast", model.CategoryBreakfast, 25)))
	hidden := newMenuItem("Baghrir", model.CategoryBreakfast, 20)
	require.NoError(t, repo.Create(hidden))
	require.NoError(t, repo.UpdateColumn(hidden.ID, "is_active", false))

	all, err := repo.List(ListQuery{Order: "category ASC, name ASC"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Amlou Toast", all[0].Name)
	assert.Equal(t, "Baghrir", all[1].Name)
	assert.Equal(t, "Tajine Kefta", all[2].Name)

	active, err := repo.List(ListQuery{Where: map[string]interface{}{"is_active": true}, Order: "category ASC, name ASC"})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	count, err := repo.Count(map[string]interface{}{"is_active": true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestResourceRepository_ListEmptyIsNotNil(t *testing.T) {
	_, repo := setupMenuRepositoryTest(t)

	items, err := repo.List(ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestResourceRepository_UpdateSelectedColumnsOnly(t *testing.T) {
	_, repo := setupMenuRepositoryTest(t)

	item := newMenuItem("Harira", model.CategoryDailySpecials, 30)
	item.Description = "Tomato and lentil soup"
	require.NoError(t, repo.Create(item))

	patched := *item
	patched.Price = decimal.NewFromInt(35)
	patched.Description = "should not be written"
	require.NoError(t, repo.Update(&patched, []string{"price"}))

	found, err := repo.FindByID(item.ID)
	require.NoError(t, err)
	assert.True(t, found.Price.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, "Tomato and lentil soup", found.Description)

	// zero values are written when selected
	patched.IsActive = false
	require.NoError(t, repo.Update(&patched, []string{"is_active"}))
	found, err = repo.FindByID(item.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	ghost := newMenuItem("Ghost", model.CategoryCoffee, 1)
	ghost.ID = "does-not-exist"
	assert.ErrorIs(t, repo.Update(ghost, []string{"name"}), gorm.ErrRecordNotFound)
}

func TestResourceRepository_DeleteTwice(t *testing.T) {
	_, repo := setupMenuRepositoryTest(t)

	keep := newMenuItem("Mint Tea", model.CategoryCoffee, 10)
	gone := newMenuItem("Nous Nous", model.CategoryCoffee, 12)
	require.NoError(t, repo.Create(keep))
	require.NoError(t, repo.Create(gone))

	require.NoError(t, repo.Delete(gone.ID))
	assert.ErrorIs(t, repo.Delete(gone.ID), gorm.ErrRecordNotFound)

	items, err := repo.List(ListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, items[0].ID)
}

func TestResourceRepository_BulkCreate(t *testing.T) {
	_, repo := setupMenuRepositoryTest(t)

	items := []model.MenuItem{
		*newMenuItem("Msemen", model.CategoryBreakfast, 15),
		*newMenuItem("Harcha", model.CategoryBreakfast, 12),
		*newMenuItem("Atay", model.CategoryCoffee, 10),
	}
	require.NoError(t, repo.BulkCreate(items, 2))
	require.NoError(t, repo.BulkCreate(nil, 2))

	count, err := repo.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	for _, it := range items {
		assert.Len(t, it.ID, 36)
	}
}
