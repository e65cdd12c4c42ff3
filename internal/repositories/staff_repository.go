package repositories

import "menucart/internal/models"

// StaffRepository defines the interface for staff account data access.
type StaffRepository interface {
	Create(staff *models.Staff) error
	GetByEmail(email string) (*models.Staff, error)
	GetByID(id string) (*models.Staff, error)
}
