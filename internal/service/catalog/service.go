package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/repository"
	postgresrepo "github.com/kirinyoku/railgo/internal/repository/postgres"
	"github.com/kirinyoku/railgo/internal/uow"
)

type Service struct {
	store *postgresrepo.Store
	uow   *uow.UoW
}

func New(store *postgresrepo.Store) *Service {
	return &Service{
		store: store,
		uow:   uow.NewUoW(store),
	}
}

// CreateStation creates a station record and returns its ID.
//
// Returns:
//   - error: catalog.ErrStationConflict if a station with the same name
//     already exists.
func (s *Service) CreateStation(ctx context.Context, name string, lat, lon float64) (int64, error) {
	const op = "service.catalog.CreateStation"

	id, err := s.store.Catalog().CreateStation(ctx, name, lat, lon)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%s: %w", op, ErrStationConflict)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Service) ListStations(ctx context.Context, limit, offset int) ([]domain.Station, error) {
	const op = "service.catalog.ListStations"

	out, err := s.store.Catalog().ListStations(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// CreateTrainType creates a train type and returns its ID.
//
// Returns:
//   - error: catalog.ErrTrainTypeConflict if the name is taken.
func (s *Service) CreateTrainType(ctx context.Context, name string) (int64, error) {
	const op = "service.catalog.CreateTrainType"

	id, err := s.store.Catalog().CreateTrainType(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%s: %w", op, ErrTrainTypeConflict)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// CreateTrain validates the candidate train and persists it.
//
// Returns:
//   - error: domain.ErrInvalidBaggageRange or domain.ErrInvalidCapacity on
//     malformed field combinations; nothing is persisted.
//   - error: catalog.ErrTrainConflict if the train number is taken.
//   - error: catalog.ErrTrainTypeNotFound if the referenced type is unknown.
func (s *Service) CreateTrain(ctx context.Context, t domain.Train) (int64, error) {
	const op = "service.catalog.CreateTrain"

	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if _, err := s.store.Catalog().With(tx).GetTrainType(ctx, t.TrainTypeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrTrainTypeNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		var err error
		id, err = s.store.Catalog().With(tx).CreateTrain(ctx, t)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrTrainConflict)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})

	return id, err
}

func (s *Service) GetTrain(ctx context.Context, id int64) (*domain.Train, error) {
	const op = "service.catalog.GetTrain"

	t, err := s.store.Catalog().GetTrain(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTrainNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// CreateRoute validates the candidate route and persists it.
//
// Returns:
//   - error: domain.ErrInvalidRoute if source equals destination,
//     domain.ErrInvalidDistance for a non-positive distance.
//   - error: catalog.ErrRouteConflict if the (source, destination) pair
//     already exists; concurrent duplicates surface the same way.
//   - error: catalog.ErrStationNotFound if an endpoint is unknown.
func (s *Service) CreateRoute(ctx context.Context, rt domain.Route) (int64, error) {
	const op = "service.catalog.CreateRoute"

	if err := rt.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.store.Catalog().CreateRoute(ctx, rt)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%s: %w", op, ErrRouteConflict)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%s: %w", op, ErrStationNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Service) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	const op = "service.catalog.GetRoute"

	rt, err := s.store.Catalog().GetRoute(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrRouteNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rt, nil
}

func (s *Service) CreateCrew(ctx context.Context, firstName, lastName string) (int64, error) {
	const op = "service.catalog.CreateCrew"

	id, err := s.store.Catalog().CreateCrew(ctx, firstName, lastName)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Service) ListCrew(ctx context.Context, limit, offset int) ([]domain.Crew, error) {
	const op = "service.catalog.ListCrew"

	out, err := s.store.Catalog().ListCrew(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
