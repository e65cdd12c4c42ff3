package repositories

import (
	"errors"
	"fmt"

	"menucart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMenuRepository is a GORM implementation of MenuRepository.
type GORMMenuRepository struct {
	db *gorm.DB
}

// NewGORMMenuRepository creates a new instance of GORMMenuRepository.
func NewGORMMenuRepository(db *gorm.DB) *GORMMenuRepository {
	return &GORMMenuRepository{
		db: db,
	}
}

// GetCategories retrieves all categories with their items.
func (r *GORMMenuRepository) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Order("display_order").Order("name").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get menu categories: %w", err)
	}
	for i := range categories {
		if categories[i].Items == nil {
			categories[i].Items = []models.MenuItem{}
		}
	}
	return categories, nil
}

// GetItem retrieves a single menu item by its ID.
func (r *GORMMenuRepository) GetItem(id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("menu item with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get menu item by ID %s: %w", id, err)
	}
	return &item, nil
}

// CreateCategory creates a category together with its items.
func (r *GORMMenuRepository) CreateCategory(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	for i := range category.Items {
		if category.Items[i].ID == "" {
			category.Items[i].ID = uuid.New().String()
		}
	}
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// CreateItem creates a new menu item.
func (r *GORMMenuRepository) CreateItem(item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// UpdateItem updates an existing menu item.
func (r *GORMMenuRepository) UpdateItem(item *models.MenuItem) error {
	res := r.db.Model(&models.MenuItem{}).Where("id = ?", item.ID).
		Select("*").Omit("id").Updates(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update menu item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("menu item with ID %s %w", item.ID, ErrNotFound)
	}
	return nil
}

// DeleteItem deletes a menu item by its ID. Placed orders keep their own copy
// of the line.
func (r *GORMMenuRepository) DeleteItem(id string) error {
	res := r.db.Delete(&models.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete menu item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("menu item with ID %s %w", id, ErrNotFound)
	}
	return nil
}

// ReserveStock decrements stock for all items inside one transaction. Items
// that reach zero are marked unavailable.
func (r *GORMMenuRepository) ReserveStock(quantities map[string]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for id, qty := range quantities {
			var item models.MenuItem
			if err := tx.First(&item, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("menu item with ID %s %w", id, ErrNotFound)
				}
				return fmt.Errorf("failed to load menu item %s: %w", id, err)
			}
			if item.AvailableQty < qty {
				return fmt.Errorf("%w for %s (requested: %d, available: %d)", ErrInsufficientStock, item.Name, qty, item.AvailableQty)
			}
			res := tx.Model(&models.MenuItem{}).
				Where("id = ? AND available_qty >= ?", id, qty).
				Update("available_qty", gorm.Expr("available_qty - ?", qty))
			if res.Error != nil {
				return fmt.Errorf("failed to reserve stock for %s: %w", id, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, item.Name)
			}
			if item.AvailableQty == qty {
				if err := tx.Model(&models.MenuItem{}).Where("id = ?", id).Update("is_available", false).Error; err != nil {
					return fmt.Errorf("failed to mark %s sold out: %w", id, err)
				}
			}
		}
		return nil
	})
}

// ReleaseStock adds quantities back inside one transaction. Items coming back
// from zero are made available again.
func (r *GORMMenuRepository) ReleaseStock(quantities map[string]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for id, qty := range quantities {
			err := tx.Model(&models.MenuItem{}).Where("id = ?", id).Updates(map[string]interface{}{
				"is_available":  gorm.Expr("CASE WHEN available_qty = 0 THEN ? ELSE is_available END", true),
				"available_qty": gorm.Expr("available_qty + ?", qty),
			}).Error
			if err != nil {
				return fmt.Errorf("failed to release stock for %s: %w", id, err)
			}
		}
		return nil
	})
}
