package repositories

import (
	"menucart/internal/models"
)

// MenuRepository defines the interface for menu data access.
type MenuRepository interface {
	// GetCategories returns categories by display order with their items sorted by name.
	GetCategories() ([]models.Category, error)
	GetItem(id string) (*models.MenuItem, error)
	CreateCategory(category *models.Category) error
	CreateItem(item *models.MenuItem) error
	UpdateItem(item *models.MenuItem) error
	DeleteItem(id string) error
	// ReserveStock decrements available quantity for every item in quantities,
	// all or nothing.
	ReserveStock(quantities map[string]int) error
	// ReleaseStock returns previously reserved quantities.
	ReleaseStock(quantities map[string]int) error
}
