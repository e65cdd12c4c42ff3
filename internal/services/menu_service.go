package services

import (
	"fmt"
	"log/slog"

	"menucart/internal/models"
	"menucart/internal/repositories"
)

// MenuService handles business logic related to the menu.
type MenuService struct {
	repo           repositories.MenuRepository
	restaurantName string
	logger         *slog.Logger
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo repositories.MenuRepository, restaurantName string, logger *slog.Logger) *MenuService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuService{
		repo:           repo,
		restaurantName: restaurantName,
		logger:         logger,
	}
}

// GetMenu returns the full catalog.
func (s *MenuService) GetMenu() (*models.MenuData, error) {
	categories, err := s.repo.GetCategories()
	if err != nil {
		return nil, err
	}
	return &models.MenuData{RestaurantName: s.restaurantName, Categories: categories}, nil
}

// GetItem retrieves a single menu item by its ID.
func (s *MenuService) GetItem(id string) (*models.MenuItem, error) {
	return s.repo.GetItem(id)
}

// CreateItem adds an item to an existing category. Any client-supplied ID is
// replaced.
func (s *MenuService) CreateItem(item *models.MenuItem) error {
	if err := s.checkCategory(item.CategoryID); err != nil {
		return err
	}
	item.ID = ""
	if err := s.repo.CreateItem(item); err != nil {
		return err
	}
	s.logger.Info("menu item created", "item_id", item.ID, "category_id", item.CategoryID)
	return nil
}

// UpdateItem replaces an item's fields. An empty CategoryID keeps the item in
// its current category.
func (s *MenuService) UpdateItem(item *models.MenuItem) error {
	existing, err := s.repo.GetItem(item.ID)
	if err != nil {
		return err
	}
	if item.CategoryID == "" {
		item.CategoryID = existing.CategoryID
	} else if err := s.checkCategory(item.CategoryID); err != nil {
		return err
	}
	if err := s.repo.UpdateItem(item); err != nil {
		return err
	}
	s.logger.Info("menu item updated", "item_id", item.ID)
	return nil
}

// DeleteItem removes an item from the menu.
func (s *MenuService) DeleteItem(id string) error {
	if err := s.repo.DeleteItem(id); err != nil {
		return err
	}
	s.logger.Info("menu item deleted", "item_id", id)
	return nil
}

func (s *MenuService) checkCategory(id string) error {
	if id == "" {
		return fmt.Errorf("%w: categoryId is required", ErrInvalidItem)
	}
	categories, err := s.repo.GetCategories()
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c.ID == id {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown category %s", ErrInvalidItem, id)
}

// ToggleAvailability flips whether an item can be ordered.
func (s *MenuService) ToggleAvailability(id string) (*models.MenuItem, error) {
	item, err := s.repo.GetItem(id)
	if err != nil {
		return nil, err
	}
	item.IsAvailable = !item.IsAvailable
	if err := s.repo.UpdateItem(item); err != nil {
		return nil, err
	}
	s.logger.Info("menu item availability changed", "item_id", id, "available", item.IsAvailable)
	return item, nil
}

// Seed stores every category in data when the menu is empty. It reports
// whether anything was written.
func (s *MenuService) Seed(data *models.MenuData) (bool, error) {
	existing, err := s.repo.GetCategories()
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	if data.RestaurantName != "" && s.restaurantName == "" {
		s.restaurantName = data.RestaurantName
	}
	for i := range data.Categories {
		category := data.Categories[i]
		category.Items = append([]models.MenuItem(nil), category.Items...)
		if err := s.repo.CreateCategory(&category); err != nil {
			return false, fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}
		s.logger.Info("seeded menu category", "category", category.Name, "items", len(category.Items))
	}
	return true, nil
}
