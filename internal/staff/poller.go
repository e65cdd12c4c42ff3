// Package staff keeps the staff order board in sync with the backend.
package staff

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"menucart/internal/models"

	"golang.org/x/sync/singleflight"
)

// DefaultInterval is how often the board is re-fetched.
const DefaultInterval = 30 * time.Second

// Backend is the subset of the API client the board uses.
type Backend interface {
	ListStaffOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
}

// Poller holds the latest known order list.
type Poller struct {
	backend  Backend
	interval time.Duration
	filter   models.OrderStatus
	logger   *slog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	seq     uint64
	applied uint64
	orders  []models.Order
	updated time.Time
}

// NewPoller creates a Poller. A zero interval means DefaultInterval; filter
// restricts the board to one status when non-empty.
func NewPoller(backend Backend, interval time.Duration, filter models.OrderStatus, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{backend: backend, interval: interval, filter: filter, logger: logger}
}

// Run refreshes immediately and then every interval until ctx is done. onChange,
// when set, receives each newly applied list.
func (p *Poller) Run(ctx context.Context, onChange func([]models.Order)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		orders, err := p.Refresh(ctx)
		if err != nil {
			p.logger.Warn("order board refresh failed", "error", err)
		} else if onChange != nil {
			onChange(orders)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Refresh fetches the order list. Concurrent calls share one request, which
// is detached from any single caller's cancellation; each caller still stops
// waiting when its own ctx is done.
func (p *Poller) Refresh(ctx context.Context) ([]models.Order, error) {
	detached := context.WithoutCancel(ctx)
	ch := p.group.DoChan("orders", func() (interface{}, error) {
		return p.fetch(detached)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			p.logger.Debug("joined in-flight order refresh")
		}
		return copyOrders(res.Val.([]models.Order)), nil
	}
}

func (p *Poller) fetch(ctx context.Context) ([]models.Order, error) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	orders, err := p.backend.ListStaffOrders(ctx, p.filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq > p.applied {
		p.applied = seq
		p.orders = orders
		p.updated = time.Now()
	}
	return copyOrders(p.orders), nil
}

// Orders returns a copy of the last applied list.
func (p *Poller) Orders() []models.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return copyOrders(p.orders)
}

// LastUpdated reports when the list was last replaced.
func (p *Poller) LastUpdated() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updated
}

// UpdateStatus applies the change to the local board first, then sends it.
// When the backend rejects it the board is re-fetched and the error returned.
func (p *Poller) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}

	p.mu.Lock()
	// Invalidate any fetch that started before this local change.
	p.seq++
	p.applied = p.seq
	for i := range p.orders {
		if p.orders[i].ID == id {
			p.orders[i].Status = status
			break
		}
	}
	p.mu.Unlock()

	if err := p.backend.UpdateOrderStatus(ctx, id, status); err != nil {
		p.logger.Warn("status update rejected, reloading board", "order_id", id, "status", status, "error", err)
		if _, rerr := p.Refresh(ctx); rerr != nil {
			p.logger.Error("failed to reload board", "error", rerr)
		}
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}
	p.logger.Info("order status updated", "order_id", id, "status", status)
	return nil
}

func copyOrders(in []models.Order) []models.Order {
	if in == nil {
		return nil
	}
	out := make([]models.Order, len(in))
	for i := range in {
		out[i] = *in[i].Clone()
	}
	return out
}
