package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirinyoku/railgo/internal/config"
	"github.com/kirinyoku/railgo/internal/postgres"
	redisx "github.com/kirinyoku/railgo/internal/redis"
	postgresrepo "github.com/kirinyoku/railgo/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/railgo/internal/repository/redis"
	"github.com/kirinyoku/railgo/internal/service"
	httpgin "github.com/kirinyoku/railgo/internal/transport/http/gin"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	pubsub     *redisx.JourneysPubSub
	cache      *redisrepo.Cache
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	if err := postgres.Migrate(context.Background(), pgxPool); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewJourneysPubSub(rdb)
	// A zero rate limit disables limiting; the booking service treats a nil
	// limiter as "always allow".
	var limiter *redisrepo.SlidingWindowLimiter
	if cfg.Booking.RateLimit > 0 {
		limiter = redisrepo.NewSlidingWindowLimiter(rdb, "railgo:v1:rl", cfg.Booking.RateLimit, 1*time.Minute)
	}
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Initialize services
	services := service.NewServices(store, cache, pubsub, limiter, service.Config{})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		pubsub: pubsub,
		cache:  cache,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Drop cached journey projections when another instance commits a
	// booking. The committing instance already invalidates, so errors here
	// only extend staleness to the cache TTL.
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, journeyID int64) {
			if err := a.cache.InvalidateJourney(ctx, journeyID); err != nil {
				a.logger.Warn("cache invalidation failed", "journey_id", journeyID, "error", err)
			}
		})
		if err != nil && gCtx.Err() == nil {
			return fmt.Errorf("journeys subscription: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
