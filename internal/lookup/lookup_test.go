package lookup_test

import (
	"context"
	"fmt"
	"testing"

	"menucart/internal/apiclient"
	"menucart/internal/kvstore"
	"menucart/internal/lookup"
	"menucart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFetcher is a mock implementation of lookup.OrderFetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func TestHistorySaveAndFind(t *testing.T) {
	ctx := context.Background()
	h := lookup.NewHistory(kvstore.NewMemory())

	order := &models.Order{ID: "ORD-M5XYZ-A1B", Total: 10}
	require.NoError(t, h.Save(ctx, order))

	found, err := h.FindOrder(ctx, "  ord-m5xyz-a1b ")
	require.NoError(t, err)
	assert.Equal(t, 10.0, found.Total)

	order.Total = 27
	require.NoError(t, h.Save(ctx, order))
	all, err := h.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 27.0, all[0].Total)
}

func TestHistoryNotFoundLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	h := lookup.NewHistory(kv)
	require.NoError(t, h.Save(ctx, &models.Order{ID: "ORD-M5XYZ-A1B"}))
	before, err := kv.Get(ctx, kvstore.KeyOrders)
	require.NoError(t, err)

	for _, code := range []string{"ORD-M5XYZ-ZZZ", "garbage", ""} {
		order, err := h.FindOrder(ctx, code)
		assert.ErrorIs(t, err, lookup.ErrNotFound, code)
		assert.Nil(t, order)
	}

	after, err := kv.Get(ctx, kvstore.KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestHistoryEmpty(t *testing.T) {
	h := lookup.NewHistory(kvstore.NewMemory())
	_, err := h.FindOrder(context.Background(), "ORD-M5XYZ-A1B")
	assert.ErrorIs(t, err, lookup.ErrNotFound)
}

func TestRemoteFindOrder(t *testing.T) {
	ctx := context.Background()
	f := new(MockFetcher)
	f.On("GetOrder", ctx, "ORD-M5XYZ-A1B").Return(&models.Order{ID: "ORD-M5XYZ-A1B"}, nil).Once()

	order, err := lookup.NewRemote(f).FindOrder(ctx, "ord-m5xyz-a1b")
	require.NoError(t, err)
	assert.Equal(t, "ORD-M5XYZ-A1B", order.ID)
	f.AssertExpectations(t)
}

func TestRemoteNotFound(t *testing.T) {
	ctx := context.Background()
	f := new(MockFetcher)
	f.On("GetOrder", ctx, "ORD-M5XYZ-A1B").
		Return(nil, &apiclient.APIError{StatusCode: 404, Message: "Order not found"}).Once()

	_, err := lookup.NewRemote(f).FindOrder(ctx, "ORD-M5XYZ-A1B")
	assert.ErrorIs(t, err, lookup.ErrNotFound)
	f.AssertExpectations(t)
}

func TestRemoteMalformedCodeSkipsNetwork(t *testing.T) {
	f := new(MockFetcher)
	_, err := lookup.NewRemote(f).FindOrder(context.Background(), "hello")
	assert.ErrorIs(t, err, lookup.ErrNotFound)
	f.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
}

func TestRemoteTransportErrorIsNotNotFound(t *testing.T) {
	ctx := context.Background()
	f := new(MockFetcher)
	f.On("GetOrder", ctx, "ORD-M5XYZ-A1B").Return(nil, fmt.Errorf("connection refused")).Once()

	_, err := lookup.NewRemote(f).FindOrder(ctx, "ORD-M5XYZ-A1B")
	require.Error(t, err)
	assert.NotErrorIs(t, err, lookup.ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}
