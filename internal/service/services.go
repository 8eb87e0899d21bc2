package service

import (
	redisx "github.com/kirinyoku/railgo/internal/redis"
	postgres "github.com/kirinyoku/railgo/internal/repository/postgres"
	redis "github.com/kirinyoku/railgo/internal/repository/redis"
	"github.com/kirinyoku/railgo/internal/service/booking"
	"github.com/kirinyoku/railgo/internal/service/catalog"
	"github.com/kirinyoku/railgo/internal/service/inventory"
	"github.com/kirinyoku/railgo/internal/service/orders"
	"github.com/kirinyoku/railgo/internal/service/query"
)

type Services struct {
	Catalog   *catalog.Service
	Inventory *inventory.Service
	Booking   *booking.Service
	Orders    *orders.Service
	Query     *query.Service
}

type Config struct {
	Booking booking.Config
	Query   query.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.JourneysPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Catalog:   catalog.New(store),
		Inventory: inventory.New(store, cache, pubsub),
		Booking:   booking.New(store, cache, pubsub, limiter, cfg.Booking),
		Orders:    orders.New(store),
		Query:     query.New(store, cache, cfg.Query),
	}
}
