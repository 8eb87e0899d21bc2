package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/metrics"
	redisx "github.com/kirinyoku/railgo/internal/redis"
	"github.com/kirinyoku/railgo/internal/repository"
	postgresrepo "github.com/kirinyoku/railgo/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/railgo/internal/repository/redis"
	"github.com/kirinyoku/railgo/internal/uow"
)

type Config struct {
	// Now is the clock used for journey eligibility. Defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisx.JourneysPubSub
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	now     func() time.Time
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.JourneysPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		now:     now,
	}
}

// CreateTicket sells one seat on a journey to an order. The seat flip and
// the ticket insert share one transaction: if the insert fails after the
// flip, the flip rolls back and the seat stays free. The still-free check
// and the flip are indivisible with respect to concurrent callers, so for
// any number of racing purchases of the same seat exactly one wins.
//
// Parameters:
//   - seatID, journeyID: the seat must belong to the journey.
//   - orderID: checkout grouping; scoped to userID.
//   - declaredBaggageMassKg: nil when the passenger declares no checked
//     baggage.
//   - rlKey: rate-limit bucket key, empty to skip limiting.
//
// Returns:
//   - *domain.Ticket: the persisted ticket referencing the occupied seat.
//   - error: booking.ErrJourneyNotFound, booking.ErrJourneyClosed,
//     booking.ErrSeatNotFound, booking.ErrSeatJourneyMismatch,
//     booking.ErrSeatAlreadyOccupied, booking.ErrOrderNotFound,
//     booking.ErrTicketConflict, booking.ErrRateLimited.
func (s *Service) CreateTicket(
	ctx context.Context,
	seatID, journeyID int64,
	orderID uuid.UUID,
	userID int64,
	declaredBaggageMassKg *int,
	rlKey string,
) (*domain.Ticket, error) {
	const op = "service.booking.CreateTicket"

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w: retry in %s", op, ErrRateLimited, retry)
		}
	}

	var ticket *domain.Ticket

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		journey, train, err := s.store.Query().With(tx).JourneyWithTrain(ctx, journeyID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrJourneyNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		// Tickets are only sold for journeys that have not departed.
		if !journey.DepartureTime.After(s.now()) {
			return fmt.Errorf("%s: %w", op, ErrJourneyClosed)
		}

		if _, err := s.store.Orders().With(tx).Get(ctx, orderID, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrOrderNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		seat, err := s.store.Inventory().With(tx).ReserveSeat(ctx, seatID, journeyID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrSeatNotFound):
				return fmt.Errorf("%s: %w", op, ErrSeatNotFound)
			case errors.Is(err, repository.ErrSeatJourneyMismatch):
				return fmt.Errorf("%s: %w", op, ErrSeatJourneyMismatch)
			case errors.Is(err, repository.ErrSeatAlreadyOccupied):
				metrics.SeatConflicts.Inc()
				return fmt.Errorf("%s: %w", op, SeatOccupiedError{SeatID: seatID, JourneyID: journeyID})
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		charge := false
		if declaredBaggageMassKg != nil {
			charge = train.CheckedBaggageCharge(*declaredBaggageMassKg)
		}

		ticket, err = s.store.Orders().With(tx).InsertTicket(ctx, domain.Ticket{
			SeatID:               seat.ID,
			JourneyID:            journeyID,
			OrderID:              orderID,
			CheckedBaggageCharge: charge,
		})
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrTicketConflict)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			metrics.TicketsIssued.Inc()
			if s.cache != nil {
				_ = s.cache.InvalidateJourney(ctx, journeyID)
			}
			if s.pubsub != nil {
				_ = s.pubsub.PublishJourneyChanged(ctx, journeyID)
			}
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ticket, nil
}

// ReserveSeat flips a seat to occupied outside of a ticket purchase. Used by
// operational tooling; the ticket path goes through CreateTicket.
func (s *Service) ReserveSeat(ctx context.Context, seatID, journeyID int64) (*domain.Seat, error) {
	const op = "service.booking.ReserveSeat"

	seat, err := s.store.Inventory().ReserveSeat(ctx, seatID, journeyID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrSeatNotFound)
		case errors.Is(err, repository.ErrSeatJourneyMismatch):
			return nil, fmt.Errorf("%s: %w", op, ErrSeatJourneyMismatch)
		case errors.Is(err, repository.ErrSeatAlreadyOccupied):
			metrics.SeatConflicts.Inc()
			return nil, fmt.Errorf("%s: %w", op, SeatOccupiedError{SeatID: seatID, JourneyID: journeyID})
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateJourney(ctx, journeyID)
	}
	if s.pubsub != nil {
		_ = s.pubsub.PublishJourneyChanged(ctx, journeyID)
	}

	return seat, nil
}
