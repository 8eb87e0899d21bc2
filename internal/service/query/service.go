package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/repository"
	postgresrepo "github.com/kirinyoku/railgo/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/railgo/internal/repository/redis"
)

type Config struct {
	JourneySummaryTTL time.Duration
	AvailabilityTTL   time.Duration
	DefaultSeatsPage  int
	MaxSeatsPage      int
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.JourneySummaryTTL <= 0 {
		cfg.JourneySummaryTTL = 60 * time.Second
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.DefaultSeatsPage <= 0 {
		cfg.DefaultSeatsPage = 100
	}

	if cfg.MaxSeatsPage <= 0 {
		cfg.MaxSeatsPage = 500
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// GetJourneySummary retrieves the list-view projection of a journey: route
// endpoints as one label, train type name, crew full names. Cached.
//
// Returns:
//   - error: query.ErrJourneyNotFound if the journey is unknown.
func (s *Service) GetJourneySummary(ctx context.Context, id int64) (*domain.JourneySummary, error) {
	const op = "service.query.GetJourneySummary"

	load := func(ctx context.Context) (domain.JourneySummary, error) {
		j, err := s.store.Query().JourneySummary(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.JourneySummary{}, ErrJourneyNotFound
			}

			return domain.JourneySummary{}, err
		}

		return *j, nil
	}

	if s.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &out, nil
	}

	summary, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyJourneySummary(id),
		s.cfg.JourneySummaryTTL,
		load,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &summary, nil
}

// GetJourneyDetail retrieves the retrieve-view projection with resolved
// route, stations, train and crew. Not cached; detail reads are rare.
func (s *Service) GetJourneyDetail(ctx context.Context, id int64) (*domain.JourneyDetail, error) {
	const op = "service.query.GetJourneyDetail"

	d, err := s.store.Query().JourneyDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrJourneyNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

func (s *Service) ListJourneys(ctx context.Context, limit, offset int) ([]domain.JourneySummary, error) {
	const op = "service.query.ListJourneys"

	if limit <= 0 {
		limit = s.cfg.DefaultSeatsPage
	}

	if limit > s.cfg.MaxSeatsPage {
		limit = s.cfg.MaxSeatsPage
	}

	out, err := s.store.Query().ListJourneys(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// CountsByJourney retrieves free/occupied/total seat counts for a journey,
// cached with a short TTL.
func (s *Service) CountsByJourney(ctx context.Context, journeyID int64) (*domain.SeatCounts, error) {
	const op = "service.query.CountsByJourney"

	load := func(ctx context.Context) (domain.SeatCounts, error) {
		sc, err := s.store.Query().CountsByJourney(ctx, journeyID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.SeatCounts{}, ErrJourneyNotFound
			}

			return domain.SeatCounts{}, err
		}

		return *sc, nil
	}

	if s.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &out, nil
	}

	counts, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyJourneyAvailability(journeyID),
		s.cfg.AvailabilityTTL,
		load,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &counts, nil
}

// ListJourneySeats lists seats for a journey in number order, optionally
// only the free ones. Pagination is clamped to the configured page sizes.
func (s *Service) ListJourneySeats(
	ctx context.Context,
	journeyID int64,
	onlyFree bool,
	limit, offset int,
) ([]domain.Seat, error) {
	const op = "service.query.ListJourneySeats"

	if limit <= 0 {
		limit = s.cfg.DefaultSeatsPage
	}

	if limit > s.cfg.MaxSeatsPage {
		limit = s.cfg.MaxSeatsPage
	}

	seats, err := s.store.Query().ListJourneySeats(ctx, journeyID, onlyFree, limit, offset)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrJourneyNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seats, nil
}

// GetTicket retrieves the ticket projection: seat number, journey summary,
// baggage thresholds and order reference.
func (s *Service) GetTicket(ctx context.Context, ticketID uuid.UUID) (*domain.TicketDetail, error) {
	const op = "service.query.GetTicket"

	t, err := s.store.Query().TicketDetail(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTicketNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}
