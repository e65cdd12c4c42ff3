package services_test

import (
	"testing"

	"menucart/internal/models"
	"menucart/internal/repositories"
	"menucart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuService_GetMenu(t *testing.T) {
	service := services.NewMenuService(newMenuRepo(t), "Bistro", discard)

	menu, err := service.GetMenu()
	require.NoError(t, err)
	assert.Equal(t, "Bistro", menu.RestaurantName)
	require.Len(t, menu.Categories, 1)
	assert.Equal(t, "Burger", menu.Categories[0].Items[0].Name)
}

func TestMenuService_ToggleAvailability(t *testing.T) {
	repo := newMenuRepo(t)
	service := services.NewMenuService(repo, "Bistro", discard)

	item, err := service.ToggleAvailability("A")
	require.NoError(t, err)
	assert.False(t, item.IsAvailable)

	item, err = service.ToggleAvailability("A")
	require.NoError(t, err)
	assert.True(t, item.IsAvailable)

	_, err = service.ToggleAvailability("nope")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestMenuService_SeedOnlyWhenEmpty(t *testing.T) {
	repo := repositories.NewMockMenuRepository()
	service := services.NewMenuService(repo, "", discard)

	data := &models.MenuData{
		RestaurantName: "Seeded",
		Categories: []models.Category{
			{ID: "mains", Name: "Mains", Items: []models.MenuItem{{ID: "A", Name: "Burger", Price: 10, AvailableQty: 3, IsAvailable: true}}},
		},
	}
	seeded, err := service.Seed(data)
	require.NoError(t, err)
	assert.True(t, seeded)

	menu, err := service.GetMenu()
	require.NoError(t, err)
	assert.Equal(t, "Seeded", menu.RestaurantName)
	require.Len(t, menu.Categories, 1)
	assert.Len(t, menu.Categories[0].Items, 1)

	seeded, err = service.Seed(data)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestMenuService_ManageItems(t *testing.T) {
	repo := newMenuRepo(t)
	service := services.NewMenuService(repo, "Bistro", discard)

	item := &models.MenuItem{ID: "client-id", CategoryID: "mains", Name: "Onion Rings", Price: 4.5, AvailableQty: 8, IsAvailable: true}
	require.NoError(t, service.CreateItem(item))
	assert.NotEqual(t, "client-id", item.ID)

	stored, err := service.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Onion Rings", stored.Name)

	update := &models.MenuItem{ID: item.ID, Name: "Onion Rings", Price: 5, AvailableQty: 2, IsAvailable: true}
	require.NoError(t, service.UpdateItem(update))
	stored, err = service.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, stored.Price)
	assert.Equal(t, 2, stored.AvailableQty)
	assert.Equal(t, "mains", stored.CategoryID)

	require.NoError(t, service.DeleteItem(item.ID))
	_, err = service.GetItem(item.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, service.DeleteItem(item.ID), repositories.ErrNotFound)
}

func TestMenuService_ItemCategoryChecks(t *testing.T) {
	service := services.NewMenuService(newMenuRepo(t), "Bistro", discard)

	err := service.CreateItem(&models.MenuItem{Name: "Orphan", Price: 1})
	assert.ErrorIs(t, err, services.ErrInvalidItem)

	err = service.CreateItem(&models.MenuItem{CategoryID: "desserts", Name: "Pie", Price: 6})
	assert.ErrorIs(t, err, services.ErrInvalidItem)

	err = service.UpdateItem(&models.MenuItem{ID: "A", CategoryID: "desserts", Name: "Burger", Price: 10})
	assert.ErrorIs(t, err, services.ErrInvalidItem)

	err = service.UpdateItem(&models.MenuItem{ID: "nope", Name: "Ghost"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
