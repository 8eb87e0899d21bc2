package postgres

import (
	"context"
	"testing"

	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/repository"
	"github.com/kirinyoku/railgo/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRouteDuplicatePair(t *testing.T) {
	pool := testdb.New(t)
	store := NewStore(pool)
	ctx := context.Background()

	src, err := store.Catalog().CreateStation(ctx, "Kyiv", 50.4501, 30.5234)
	require.NoError(t, err)

	dst, err := store.Catalog().CreateStation(ctx, "Odesa", 46.4825, 30.7233)
	require.NoError(t, err)

	_, err = store.Catalog().CreateRoute(ctx, domain.Route{
		SourceID: src, DestinationID: dst, DistanceKm: 480,
	})
	require.NoError(t, err)

	// Same ordered pair again, even with a different distance.
	_, err = store.Catalog().CreateRoute(ctx, domain.Route{
		SourceID: src, DestinationID: dst, DistanceKm: 500,
	})
	require.ErrorIs(t, err, repository.ErrConflict)

	// The reverse direction is a distinct route.
	_, err = store.Catalog().CreateRoute(ctx, domain.Route{
		SourceID: dst, DestinationID: src, DistanceKm: 480,
	})
	require.NoError(t, err)
}

func TestCreateRouteUnknownStation(t *testing.T) {
	pool := testdb.New(t)
	store := NewStore(pool)
	ctx := context.Background()

	src, err := store.Catalog().CreateStation(ctx, "Kharkiv", 49.9935, 36.2304)
	require.NoError(t, err)

	_, err = store.Catalog().CreateRoute(ctx, domain.Route{
		SourceID: src, DestinationID: 424242, DistanceKm: 100,
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetStation(t *testing.T) {
	pool := testdb.New(t)
	store := NewStore(pool)
	ctx := context.Background()

	id, err := store.Catalog().CreateStation(ctx, "Dnipro", 48.4647, 35.0462)
	require.NoError(t, err)

	got, err := store.Catalog().GetStation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dnipro", got.Name)
	assert.InDelta(t, 48.4647, got.Latitude, 1e-9)

	_, err = store.Catalog().GetStation(ctx, id+1000)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateTrainRoundTrip(t *testing.T) {
	pool := testdb.New(t)
	store := NewStore(pool)
	ctx := context.Background()

	typeID, err := store.Catalog().CreateTrainType(ctx, "Night Express")
	require.NoError(t, err)

	id, err := store.Catalog().CreateTrain(ctx, domain.Train{
		Number:                "NE-9",
		SeatCapacity:          40,
		TrainTypeID:           typeID,
		MinCheckedBaggageMass: intPtr(10),
		MaxCheckedBaggageMass: intPtr(20),
	})
	require.NoError(t, err)

	got, err := store.Catalog().GetTrain(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "NE-9", got.Number)
	assert.Equal(t, 40, got.SeatCapacity)
	require.NotNil(t, got.MinCheckedBaggageMass)
	require.NotNil(t, got.MaxCheckedBaggageMass)
	assert.Equal(t, 10, *got.MinCheckedBaggageMass)
	assert.Equal(t, 20, *got.MaxCheckedBaggageMass)
}
