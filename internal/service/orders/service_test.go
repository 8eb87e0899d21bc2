package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	postgresrepo "github.com/kirinyoku/railgo/internal/repository/postgres"
	"github.com/kirinyoku/railgo/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderOwnerScoping(t *testing.T) {
	store := postgresrepo.NewStore(testdb.New(t))
	svc := New(store)
	ctx := context.Background()

	const owner, stranger = int64(1), int64(2)

	order, err := svc.CreateOrder(ctx, owner)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, owner, order.UserID)

	got, err := svc.GetOrderWithTickets(ctx, order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.Order.ID)
	assert.Empty(t, got.Tickets)

	// A foreign order reads as not found, never as forbidden.
	_, err = svc.GetOrderWithTickets(ctx, order.ID, stranger)
	require.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.GetOrderWithTickets(ctx, uuid.New(), owner)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	store := postgresrepo.NewStore(testdb.New(t))
	svc := New(store)
	ctx := context.Background()

	const alice, bob = int64(10), int64(11)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(ctx, alice)
		require.NoError(t, err)
	}
	_, err := svc.CreateOrder(ctx, bob)
	require.NoError(t, err)

	mine, err := svc.ListOrders(ctx, alice, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	for _, o := range mine {
		assert.Equal(t, alice, o.UserID)
	}

	theirs, err := svc.ListOrders(ctx, bob, 10, 0)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
