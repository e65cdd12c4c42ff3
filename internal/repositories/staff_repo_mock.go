package repositories

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"menucart/internal/models"

	"github.com/google/uuid"
)

// MockStaffRepository is an in-memory implementation of StaffRepository.
type MockStaffRepository struct {
	staff map[string]models.Staff
	mu    sync.RWMutex
}

// NewMockStaffRepository creates a new instance of MockStaffRepository.
func NewMockStaffRepository() *MockStaffRepository {
	return &MockStaffRepository{
		staff: make(map[string]models.Staff),
	}
}

// Create adds a staff account. Emails are unique, case-insensitively.
func (r *MockStaffRepository) Create(staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.staff {
		if strings.EqualFold(s.Email, staff.Email) {
			return fmt.Errorf("email %s %w", staff.Email, ErrDuplicate)
		}
	}
	if staff.ID == "" {
		staff.ID = uuid.New().String()
	}
	now := time.Now()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	r.staff[staff.ID] = *staff
	return nil
}

// GetByEmail returns a staff account by email.
func (r *MockStaffRepository) GetByEmail(email string) (*models.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.staff {
		if strings.EqualFold(s.Email, email) {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("staff with email %s %w", email, ErrNotFound)
}

// GetByID returns a staff account by ID.
func (r *MockStaffRepository) GetByID(id string) (*models.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[id]
	if !ok {
		return nil, fmt.Errorf("staff with ID %s %w", id, ErrNotFound)
	}
	return &s, nil
}
