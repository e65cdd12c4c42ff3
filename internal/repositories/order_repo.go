package repositories

import (
	"menucart/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// GetAll returns orders by creation time, oldest first. An empty status matches all.
	GetAll(status models.OrderStatus) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	// Update overwrites the stored order with the same ID.
	Update(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
}
