package memory

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/minishop-payorder/internal/domain/money"
	domain "github.com/Zhima-Mochi/minishop-payorder/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, id string) *domain.Order {
	t.Helper()
	o, err := domain.New(id, "cust_1", "USD")
	require.NoError(t, err)
	require.NoError(t, o.AddLine("prod_1", "Product 1", 1, money.MustNew("10.00", "USD")))
	return o
}

func TestSaveRequiresID(t *testing.T) {
	repo := NewOrderRepository()

	assert.ErrorIs(t, repo.Save(context.Background(), nil), domain.ErrIDRequired)
	assert.ErrorIs(t, repo.Save(context.Background(), &domain.Order{}), domain.ErrIDRequired)
	assert.Zero(t, repo.Len())
}

func TestSaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := newOrder(t, "order_1")

	require.NoError(t, repo.Save(ctx, o))

	got, err := repo.FindByID(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, domain.StatusCreated, got.Status)
	assert.Len(t, got.Lines, 1)
	assert.Equal(t, 1, repo.Len())
}

func TestFindMissing(t *testing.T) {
	_, err := NewOrderRepository().FindByID(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoredOrdersAreIsolatedFromCallers(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := newOrder(t, "order_1")
	require.NoError(t, repo.Save(ctx, o))

	require.NoError(t, o.Pay())

	loaded, err := repo.FindByID(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCreated, loaded.Status)

	require.NoError(t, loaded.AddLine("prod_2", "Product 2", 1, money.MustNew("1", "USD")))
	again, err := repo.FindByID(ctx, "order_1")
	require.NoError(t, err)
	assert.Len(t, again.Lines, 1)
}

func TestSaveUpserts(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := newOrder(t, "order_1")
	require.NoError(t, repo.Save(ctx, o))

	require.NoError(t, o.Pay())
	require.NoError(t, repo.Save(ctx, o))

	loaded, err := repo.FindByID(ctx, "order_1")
	require.NoError(t, err)
	assert.True(t, loaded.IsPaid())
	assert.Equal(t, 1, repo.Len())
}

func TestSaveValidation(t *testing.T) {
	repo := NewOrderRepository()
	assert.Error(t, repo.Save(context.Background(), nil))
	assert.Error(t, repo.Save(context.Background(), &domain.Order{}))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewOrderRepository()
	assert.ErrorIs(t, repo.Save(ctx, newOrder(t, "order_1")), context.Canceled)
	_, err := repo.FindByID(ctx, "order_1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClear(t *testing.T) {
	repo := NewOrderRepository()
	require.NoError(t, repo.Save(context.Background(), newOrder(t, "order_1")))
	repo.Clear()
	assert.Equal(t, 0, repo.Len())
}
