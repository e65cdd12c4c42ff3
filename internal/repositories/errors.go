package repositories

import "errors"

var (
	// ErrNotFound is wrapped by every repository lookup that finds no record.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is returned when a reservation exceeds an item's daily stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("already exists")
)
