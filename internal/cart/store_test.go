package cart_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"menucart/internal/cart"
	"menucart/internal/kvstore"
	"menucart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// MockPersister is a mock implementation of cart.Persister
type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) Load(ctx context.Context) (cart.State, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(cart.State), args.Bool(1), args.Error(2)
}

func (m *MockPersister) Save(ctx context.Context, s cart.State) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func TestStorePersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	p := new(MockPersister)
	p.On("Load", ctx).Return(cart.State{}, false, nil).Once()
	p.On("Save", ctx, mock.AnythingOfType("cart.State")).Return(nil).Times(4)

	store := cart.NewStore(ctx, p, discard)
	require.NoError(t, store.Add(ctx, item("A", 10, 5), 1))
	require.NoError(t, store.UpdateQuantity(ctx, "A", 3))
	require.NoError(t, store.Remove(ctx, "A"))
	require.NoError(t, store.Clear(ctx))

	p.AssertExpectations(t)
}

func TestStoreSurfacesPersistError(t *testing.T) {
	ctx := context.Background()
	p := new(MockPersister)
	p.On("Load", ctx).Return(cart.State{}, false, nil).Once()
	p.On("Save", ctx, mock.Anything).Return(fmt.Errorf("disk full")).Once()

	store := cart.NewStore(ctx, p, discard)
	err := store.Add(ctx, item("A", 10, 5), 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	// The in-memory cart still reflects the mutation.
	assert.Equal(t, 1, store.Quantity("A"))
	p.AssertExpectations(t)
}

func TestStoreRoundTripThroughStorage(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()

	store := cart.NewStore(ctx, cart.NewKVPersister(kv), discard)
	require.NoError(t, store.Add(ctx, item("A", 10, 5), 2))
	require.NoError(t, store.Add(ctx, item("B", 5, 5), 1))
	require.NoError(t, store.Add(ctx, models.MenuItem{ID: "C", Price: 7, AvailableQty: 3, Addons: []string{"extra"}}, 1))

	reloaded := cart.NewStore(ctx, cart.NewKVPersister(kv), discard)
	assert.Equal(t, store.Lines(), reloaded.Lines())
	assert.Equal(t, store.Totals(), reloaded.Totals())
}

func TestStoreStartsEmptyWithoutSnapshot(t *testing.T) {
	store := cart.NewStore(context.Background(), cart.NewKVPersister(kvstore.NewMemory()), discard)
	assert.True(t, store.IsEmpty())
	assert.Equal(t, 0, store.Quantity("A"))
}

func TestStoreDiscardsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, kvstore.KeyCart, []byte("{not json")))

	store := cart.NewStore(ctx, cart.NewKVPersister(kv), discard)
	assert.True(t, store.IsEmpty())
}

func TestStoreHydrationMergesDuplicateLines(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kvstore.SetJSON(ctx, kv, kvstore.KeyCart, []models.CartLine{
		{MenuItem: item("A", 10, 9), Quantity: 1},
		{MenuItem: item("A", 10, 9), Quantity: 2},
		{MenuItem: item("B", 5, 9), Quantity: 0},
	}))

	store := cart.NewStore(ctx, cart.NewKVPersister(kv), discard)
	assert.Len(t, store.Lines(), 1)
	assert.Equal(t, 3, store.Quantity("A"))
}

func TestAddIsLenientAboutStock(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, cart.NewKVPersister(kvstore.NewMemory()), discard)

	require.NoError(t, store.Add(ctx, item("A", 10, 1), 5))
	assert.Equal(t, 5, store.Quantity("A"))
}

func TestAddWithinStockEnforcesCap(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, cart.NewKVPersister(kvstore.NewMemory()), discard)
	a := item("A", 10, 3)

	require.NoError(t, store.AddWithinStock(ctx, a, 2))
	require.NoError(t, store.AddWithinStock(ctx, a, 1))

	err := store.AddWithinStock(ctx, a, 1)
	assert.ErrorIs(t, err, cart.ErrStockExceeded)
	assert.Equal(t, 3, store.Quantity("A"))

	err = store.AddWithinStock(ctx, item("S", 1, 0), 1)
	assert.ErrorIs(t, err, cart.ErrStockExceeded)
	assert.Equal(t, 0, store.Quantity("S"))
}

func TestLinesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, cart.NewKVPersister(kvstore.NewMemory()), discard)
	require.NoError(t, store.Add(ctx, item("A", 10, 5), 1))

	lines := store.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, store.Quantity("A"))
}
