package models

import (
	"fmt"
	"time"
)

// CartLine is a menu item plus the quantity selected. Orders carry copies of
// cart lines taken at submission time.
type CartLine struct {
	MenuItem
	Quantity int `json:"quantity" validate:"gte=1"`
}

// UserDetails holds the customer's contact information.
type UserDetails struct {
	Name  string `json:"name" gorm:"type:varchar(100)" validate:"required"`
	Phone string `json:"phone" gorm:"type:varchar(30)" validate:"min=10"`
	Email string `json:"email" gorm:"type:varchar(255)" validate:"contains=@"`
}

// OrderStatus is the kitchen-side lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusServed    OrderStatus = "served"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// statusRank orders the forward path. cancelled is handled separately.
var statusRank = map[OrderStatus]int{
	StatusPending:   0,
	StatusPreparing: 1,
	StatusServed:    2,
	StatusCompleted: 3,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
// Transitions only go forward; writing the current status again is accepted.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return statusRank[to] > statusRank[from]
}

// PaymentMethod is how the customer intends to pay.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// ParsePaymentMethod converts user input into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard:
		return PaymentMethod(s), nil
	case "":
		return PaymentCash, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// PaymentStatus tracks the (mock) payment state.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Order represents a committed customer order.
type Order struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(40)"`
	SessionID     string        `json:"sessionId" gorm:"index;type:varchar(64)"`
	TableID       string        `json:"tableId,omitempty" gorm:"type:varchar(16)"`
	UserDetails   UserDetails   `json:"userDetails" gorm:"embedded;embeddedPrefix:cust_"`
	Items         []CartLine    `json:"items" gorm:"serializer:json"`
	Status        OrderStatus   `json:"status" gorm:"index;type:varchar(20)"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"type:varchar(10)" validate:"omitempty,oneof=cash card"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(10)"`
	Total         float64       `json:"total"`
	CreatedAt     time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// CopyLines returns a deep copy of lines so that later mutation of either
// side does not leak into the other.
func CopyLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = l
		if l.Addons != nil {
			out[i].Addons = append([]string(nil), l.Addons...)
		}
	}
	return out
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = CopyLines(o.Items)
	return &c
}
