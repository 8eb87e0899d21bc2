package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/testdb"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *Store
	routeID   int64
	trainID   int64
	journeyID int64
	seats     []domain.Seat
}

func intPtr(v int) *int { return &v }

// seedJourney builds a minimal bookable journey: two stations, a route, a
// train with the given capacity and a journey departing tomorrow, with its
// seats generated.
func seedJourney(t *testing.T, capacity int) *fixture {
	t.Helper()

	pool := testdb.New(t)
	store := NewStore(pool)
	ctx := context.Background()

	catalog := store.Catalog()

	srcID, err := catalog.CreateStation(ctx, "Kyiv", 50.4501, 30.5234)
	require.NoError(t, err)

	dstID, err := catalog.CreateStation(ctx, "Lviv", 49.8397, 24.0297)
	require.NoError(t, err)

	routeID, err := catalog.CreateRoute(ctx, domain.Route{
		SourceID:      srcID,
		DestinationID: dstID,
		DistanceKm:    540,
	})
	require.NoError(t, err)

	typeID, err := catalog.CreateTrainType(ctx, "Express")
	require.NoError(t, err)

	trainID, err := catalog.CreateTrain(ctx, domain.Train{
		Number:                "IC-101",
		SeatCapacity:          capacity,
		TrainTypeID:           typeID,
		MinCheckedBaggageMass: intPtr(10),
		MaxCheckedBaggageMass: intPtr(20),
	})
	require.NoError(t, err)

	departure := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	journeyID, err := store.Journeys().Create(ctx, routeID, trainID, departure, departure.Add(5*time.Hour))
	require.NoError(t, err)

	created, err := store.Journeys().GenerateSeats(ctx, journeyID, capacity)
	require.NoError(t, err)
	require.Equal(t, int64(capacity), created)

	seats, err := store.Query().ListJourneySeats(ctx, journeyID, false, capacity+1, 0)
	require.NoError(t, err)
	require.Len(t, seats, capacity)

	return &fixture{
		store:     store,
		routeID:   routeID,
		trainID:   trainID,
		journeyID: journeyID,
		seats:     seats,
	}
}
