package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"menucart/internal/kvstore"
	"menucart/internal/models"
)

// ErrStockExceeded is returned by AddWithinStock when the requested quantity
// would exceed the item's available quantity.
var ErrStockExceeded = errors.New("quantity exceeds available stock")

// Persister saves and loads cart snapshots.
type Persister interface {
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, s State) error
}

// KVPersister stores the snapshot as JSON under one key of a kvstore.Store.
type KVPersister struct {
	Store kvstore.Store
	Key   string
}

// NewKVPersister persists under kvstore.KeyCart.
func NewKVPersister(store kvstore.Store) *KVPersister {
	return &KVPersister{Store: store, Key: kvstore.KeyCart}
}

func (p *KVPersister) Load(ctx context.Context) (State, bool, error) {
	var lines []models.CartLine
	found, err := kvstore.GetJSON(ctx, p.Store, p.Key, &lines)
	if err != nil || !found {
		return State{}, false, err
	}
	return State{Lines: lines}, true, nil
}

func (p *KVPersister) Save(ctx context.Context, s State) error {
	lines := s.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	return kvstore.SetJSON(ctx, p.Store, p.Key, lines)
}

// Store is the cart owned by one client session. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	state     State
	persister Persister
	logger    *slog.Logger
}

// NewStore creates a Store, hydrating it from the persister when a snapshot
// exists. A snapshot that cannot be decoded is discarded and the cart starts empty.
func NewStore(ctx context.Context, persister Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{persister: persister, logger: logger}

	state, found, err := persister.Load(ctx)
	switch {
	case err != nil:
		logger.Warn("discarding unreadable cart snapshot", "error", err)
	case found:
		s.state = State{Lines: dedupe(state.Lines)}
	}
	return s
}

// dedupe merges duplicate ids in a loaded snapshot so the uniqueness invariant
// holds even for hand-edited storage.
func dedupe(lines []models.CartLine) []models.CartLine {
	s := State{}
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		s = Reduce(s, Add{Item: l.MenuItem, Quantity: l.Quantity})
	}
	return s.Lines
}

func (s *Store) dispatch(ctx context.Context, a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, a)
}

// apply must be called with s.mu held.
func (s *Store) apply(ctx context.Context, a Action) error {
	s.state = Reduce(s.state, a)
	if err := s.persister.Save(ctx, s.state); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

// Add increments the item's line by quantity (1 when quantity <= 0), inserting
// it if absent. It does not check stock; see AddWithinStock.
func (s *Store) Add(ctx context.Context, item models.MenuItem, quantity int) error {
	return s.dispatch(ctx, Add{Item: item, Quantity: quantity})
}

// AddWithinStock is Add guarded by the item's available quantity. Every
// customer-facing add or increment goes through here.
func (s *Store) AddWithinStock(ctx context.Context, item models.MenuItem, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state.Quantity(item.ID)
	if current+quantity > item.AvailableQty {
		return fmt.Errorf("%w: %s has %d available, cart holds %d, requested %d",
			ErrStockExceeded, item.Name, item.AvailableQty, current, quantity)
	}
	return s.apply(ctx, Add{Item: item, Quantity: quantity})
}

// UpdateQuantity sets the line's quantity exactly. quantity <= 0 removes it.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	return s.dispatch(ctx, SetQuantity{ItemID: itemID, Quantity: quantity})
}

// Remove deletes the item's line; absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, itemID string) error {
	return s.dispatch(ctx, Remove{ItemID: itemID})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.dispatch(ctx, Clear{})
}

// Quantity returns the quantity held for itemID, or 0.
func (s *Store) Quantity(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Quantity(itemID)
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CopyLines(s.state.Lines)
}

// Totals recomputes item count and price from the current lines.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Totals()
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Lines) == 0
}
