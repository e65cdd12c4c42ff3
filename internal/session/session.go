// Package session issues the per-device pseudo identity that scopes carts and
// orders when there is no real customer login.
//
// Identifiers are short random tokens annotated with a demo table number. They
// carry roughly 36 bits of randomness and are not collision-proof across
// devices; a multi-tenant deployment needs server-issued ids instead.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sync"

	"menucart/internal/kvstore"
	"menucart/internal/orderid"
)

const maxTable = 20

var tablePattern = regexp.MustCompile(`^SES-(TBL\d+)-`)

// Manager returns the stable session id for one device.
type Manager struct {
	store kvstore.Store
	rnd   orderid.IntN

	mu sync.Mutex
}

// NewManager creates a Manager backed by store. A nil rnd uses math/rand/v2.
func NewManager(store kvstore.Store, rnd orderid.IntN) *Manager {
	if rnd == nil {
		rnd = rand.IntN
	}
	return &Manager{store: store, rnd: rnd}
}

// GetOrCreate returns the persisted session id, generating and storing one on
// first use.
func (m *Manager) GetOrCreate(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.store.Get(ctx, kvstore.KeySessionID)
	if err == nil && len(raw) > 0 {
		return string(raw), nil
	}
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return "", fmt.Errorf("failed to read session id: %w", err)
	}

	id := fmt.Sprintf("SES-TBL%d-%s", m.rnd(maxTable)+1, orderid.Random(7, m.rnd))
	if err := m.store.Set(ctx, kvstore.KeySessionID, []byte(id)); err != nil {
		return "", fmt.Errorf("failed to persist session id: %w", err)
	}
	return id, nil
}

// Clear forgets the session id; the next GetOrCreate issues a new one.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Delete(ctx, kvstore.KeySessionID)
}

// TableID extracts the demo table label (e.g. "TBL7") from a session id.
func TableID(sessionID string) string {
	if m := tablePattern.FindStringSubmatch(sessionID); m != nil {
		return m[1]
	}
	return ""
}
