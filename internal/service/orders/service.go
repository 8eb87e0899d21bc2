package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/repository"
	postgresrepo "github.com/kirinyoku/railgo/internal/repository/postgres"
)

var ErrOrderNotFound = errors.New("order not found")

type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

// CreateOrder opens a checkout grouping for the given user.
func (s *Service) CreateOrder(ctx context.Context, userID int64) (*domain.Order, error) {
	const op = "service.orders.CreateOrder"

	o, err := s.store.Orders().Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

// ListOrders lists orders for the requesting user only. Identity arrives as
// an explicit parameter, never as ambient state.
func (s *Service) ListOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	const op = "service.orders.ListOrders"

	out, err := s.store.Orders().ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// GetOrderWithTickets retrieves an order along with its tickets, scoped to
// the requesting user. A foreign order reads as not found so its existence
// does not leak.
//
// Returns:
//   - *domain.OrderWithTickets: the order with tickets.
//   - error: orders.ErrOrderNotFound if the order does not exist or belongs
//     to another user.
func (s *Service) GetOrderWithTickets(
	ctx context.Context,
	orderID uuid.UUID,
	userID int64,
) (*domain.OrderWithTickets, error) {
	const op = "service.orders.GetOrderWithTickets"

	o, err := s.store.Query().GetOrderWithTickets(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}
