package services

import "errors"

var (
	// ErrInvalidOrder means the order payload is malformed (no items, bad quantity, unknown payment method).
	ErrInvalidOrder = errors.New("invalid order")
	// ErrInvalidItem means a menu item payload names an unknown category.
	ErrInvalidItem = errors.New("invalid menu item")
	// ErrItemUnavailable means a requested menu item is switched off.
	ErrItemUnavailable = errors.New("menu item unavailable")
	// ErrInvalidStatus means the status is not one of the known values.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition means the status change would move an order backwards or out of a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrOrderClosed means items cannot be appended to a completed or cancelled order.
	ErrOrderClosed = errors.New("order is closed")
	// ErrInvalidCredentials is returned for any failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
