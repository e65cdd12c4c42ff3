package repositories

import (
	"fmt"
	"sort"
	"sync"

	"menucart/internal/models"

	"github.com/google/uuid"
)

// MockMenuRepository is an in-memory implementation of MenuRepository.
type MockMenuRepository struct {
	categories map[string]models.Category
	items      map[string]models.MenuItem
	mu         sync.RWMutex
}

// NewMockMenuRepository creates a new instance of MockMenuRepository.
func NewMockMenuRepository() *MockMenuRepository {
	return &MockMenuRepository{
		categories: make(map[string]models.Category),
		items:      make(map[string]models.MenuItem),
	}
}

// GetCategories returns all categories with their items.
func (r *MockMenuRepository) GetCategories() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		c.Items = []models.MenuItem{}
		for _, item := range r.items {
			if item.CategoryID == c.ID {
				c.Items = append(c.Items, copyItem(item))
			}
		}
		sort.Slice(c.Items, func(i, j int) bool { return c.Items[i].Name < c.Items[j].Name })
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].DisplayOrder != categories[j].DisplayOrder {
			return categories[i].DisplayOrder < categories[j].DisplayOrder
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// GetItem returns a menu item by its ID.
func (r *MockMenuRepository) GetItem(id string) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("menu item with ID %s %w", id, ErrNotFound)
	}
	item = copyItem(item)
	return &item, nil
}

// CreateCategory adds a category and any items it carries.
func (r *MockMenuRepository) CreateCategory(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	for i := range category.Items {
		item := &category.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.CategoryID = category.ID
		r.items[item.ID] = copyItem(*item)
	}
	stored := *category
	stored.Items = nil
	r.categories[category.ID] = stored
	return nil
}

// CreateItem adds a menu item.
func (r *MockMenuRepository) CreateItem(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = copyItem(*item)
	return nil
}

// UpdateItem replaces an existing menu item.
func (r *MockMenuRepository) UpdateItem(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("menu item with ID %s %w", item.ID, ErrNotFound)
	}
	r.items[item.ID] = copyItem(*item)
	return nil
}

// DeleteItem removes a menu item by its ID.
func (r *MockMenuRepository) DeleteItem(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("menu item with ID %s %w", id, ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

// ReserveStock checks every line before decrementing any.
func (r *MockMenuRepository) ReserveStock(quantities map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, qty := range quantities {
		item, ok := r.items[id]
		if !ok {
			return fmt.Errorf("menu item with ID %s %w", id, ErrNotFound)
		}
		if item.AvailableQty < qty {
			return fmt.Errorf("%w for %s (requested: %d, available: %d)", ErrInsufficientStock, item.Name, qty, item.AvailableQty)
		}
	}
	for id, qty := range quantities {
		item := r.items[id]
		item.AvailableQty -= qty
		if item.AvailableQty == 0 {
			item.IsAvailable = false
		}
		r.items[id] = item
	}
	return nil
}

// ReleaseStock adds quantities back. Unknown items are skipped.
func (r *MockMenuRepository) ReleaseStock(quantities map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, qty := range quantities {
		if item, ok := r.items[id]; ok {
			if item.AvailableQty == 0 && qty > 0 {
				item.IsAvailable = true
			}
			item.AvailableQty += qty
			r.items[id] = item
		}
	}
	return nil
}

func copyItem(item models.MenuItem) models.MenuItem {
	if item.Addons != nil {
		item.Addons = append([]string(nil), item.Addons...)
	}
	return item
}
