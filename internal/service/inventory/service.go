package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/metrics"
	"github.com/kirinyoku/railgo/internal/repository"
	postgresrepo "github.com/kirinyoku/railgo/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/railgo/internal/repository/redis"
	redisx "github.com/kirinyoku/railgo/internal/redis"
	"github.com/kirinyoku/railgo/internal/uow"
)

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.JourneysPubSub
	uow    *uow.UoW
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, pubsub *redisx.JourneysPubSub) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
	}
}

// CreateJourney schedules a train run over a route and generates its full
// seat inventory: exactly train.SeatCapacity seats numbered 1..N, all free.
// Journey, crew links and seats commit as one unit, so a journey with zero
// or partial seats is never observable.
//
// Returns:
//   - int64: the created journey ID.
//   - error: domain.ErrInvalidSchedule if arrival is not after departure;
//     nothing is persisted.
//   - error: inventory.ErrRouteNotFound / ErrTrainNotFound / ErrCrewNotFound
//     if a referenced row is missing.
func (s *Service) CreateJourney(
	ctx context.Context,
	routeID, trainID int64,
	departure, arrival time.Time,
	crewIDs []int64,
) (int64, error) {
	const op = "service.inventory.CreateJourney"

	candidate := domain.Journey{
		RouteID:       routeID,
		TrainID:       trainID,
		DepartureTime: departure,
		ArrivalTime:   arrival,
	}
	if err := candidate.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var journeyID int64
	var seats int64

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		if _, err := s.store.Catalog().With(tx).GetRoute(ctx, routeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrRouteNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		train, err := s.store.Catalog().With(tx).GetTrain(ctx, trainID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrTrainNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		journeyID, err = s.store.Journeys().With(tx).Create(ctx, routeID, trainID, departure, arrival)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrJourneyExists)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if len(crewIDs) > 0 {
			if err := s.store.Journeys().With(tx).LinkCrew(ctx, journeyID, crewIDs); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%s: %w", op, ErrCrewNotFound)
				}
				return fmt.Errorf("%s: %w", op, err)
			}
		}

		seats, err = s.store.Journeys().With(tx).GenerateSeats(ctx, journeyID, train.SeatCapacity)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if seats != int64(train.SeatCapacity) {
			return fmt.Errorf("%s: %w", op, ErrNoSeatsCreated)
		}

		after(func(ctx context.Context) {
			metrics.JourneysCreated.Inc()
			metrics.SeatsGenerated.Add(float64(seats))
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
		return 0, err
	}

	return journeyID, nil
}
