// Package lookup resolves a human-typed order code to a previously placed order.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"menucart/internal/apiclient"
	"menucart/internal/kvstore"
	"menucart/internal/models"
	"menucart/internal/orderid"
)

// ErrNotFound means no order matches the code. Malformed codes also report it.
var ErrNotFound = errors.New("order not found")

// Finder resolves order codes. Implementations never mutate state.
type Finder interface {
	FindOrder(ctx context.Context, code string) (*models.Order, error)
}

// History is the collection of every order submitted from this device, kept
// in the local key-value store.
type History struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewHistory creates a History over store.
func NewHistory(store kvstore.Store) *History {
	return &History{store: store}
}

func (h *History) load(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if _, err := kvstore.GetJSON(ctx, h.store, kvstore.KeyOrders, &orders); err != nil {
		return nil, fmt.Errorf("failed to read order history: %w", err)
	}
	return orders, nil
}

// Save inserts order, or overwrites the stored copy with the same id.
func (h *History) Save(ctx context.Context, order *models.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	orders, err := h.load(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = *order.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		orders = append(orders, *order.Clone())
	}
	if err := kvstore.SetJSON(ctx, h.store, kvstore.KeyOrders, orders); err != nil {
		return fmt.Errorf("failed to write order history: %w", err)
	}
	return nil
}

// All returns every stored order, oldest first.
func (h *History) All(ctx context.Context) ([]models.Order, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

// FindOrder scans the local collection for an exact id match.
func (h *History) FindOrder(ctx context.Context, code string) (*models.Order, error) {
	code = orderid.Normalize(code)
	if !orderid.Valid(code) {
		return nil, ErrNotFound
	}
	orders, err := h.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == code {
			return &orders[i], nil
		}
	}
	return nil, ErrNotFound
}

// OrderFetcher is the backend call Remote depends on.
type OrderFetcher interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
}

// Remote queries the backend order store by id.
type Remote struct {
	client OrderFetcher
}

// NewRemote creates a Remote finder.
func NewRemote(client OrderFetcher) *Remote {
	return &Remote{client: client}
}

// FindOrder normalizes code and asks the backend. Malformed codes are rejected
// without a network call. Transport failures are returned as-is so callers can
// tell "not found" from "could not ask".
func (r *Remote) FindOrder(ctx context.Context, code string) (*models.Order, error) {
	code = orderid.Normalize(code)
	if !orderid.Valid(code) {
		return nil, ErrNotFound
	}
	order, err := r.client.GetOrder(ctx, code)
	if errors.Is(err, apiclient.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up order %s: %w", code, err)
	}
	return order, nil
}
