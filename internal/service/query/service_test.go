package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/railgo/internal/domain"
	postgresrepo "github.com/kirinyoku/railgo/internal/repository/postgres"
	"github.com/kirinyoku/railgo/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

type queryFixture struct {
	store     *postgresrepo.Store
	svc       *Service
	journeyID int64
	seats     []domain.Seat
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()

	store := postgresrepo.NewStore(testdb.New(t))
	ctx := context.Background()

	catalog := store.Catalog()

	src, err := catalog.CreateStation(ctx, "Kyiv", 50.4501, 30.5234)
	require.NoError(t, err)

	dst, err := catalog.CreateStation(ctx, "Lviv", 49.8397, 24.0297)
	require.NoError(t, err)

	routeID, err := catalog.CreateRoute(ctx, domain.Route{
		SourceID: src, DestinationID: dst, DistanceKm: 540,
	})
	require.NoError(t, err)

	typeID, err := catalog.CreateTrainType(ctx, "Express")
	require.NoError(t, err)

	trainID, err := catalog.CreateTrain(ctx, domain.Train{
		Number:                "IC-101",
		SeatCapacity:          3,
		TrainTypeID:           typeID,
		MinCheckedBaggageMass: intPtr(10),
		MaxCheckedBaggageMass: intPtr(20),
	})
	require.NoError(t, err)

	departure := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	journeyID, err := store.Journeys().Create(ctx, routeID, trainID, departure, departure.Add(5*time.Hour))
	require.NoError(t, err)

	_, err = store.Journeys().GenerateSeats(ctx, journeyID, 3)
	require.NoError(t, err)

	seats, err := store.Query().ListJourneySeats(ctx, journeyID, false, 10, 0)
	require.NoError(t, err)

	return &queryFixture{
		store:     store,
		svc:       New(store, nil, Config{}),
		journeyID: journeyID,
		seats:     seats,
	}
}

func TestGetJourneySummary(t *testing.T) {
	fx := newQueryFixture(t)
	ctx := context.Background()

	summary, err := fx.svc.GetJourneySummary(ctx, fx.journeyID)
	require.NoError(t, err)
	assert.Equal(t, "Kyiv => Lviv", summary.Route)
	assert.Equal(t, "Express", summary.TrainType)

	_, err = fx.svc.GetJourneySummary(ctx, fx.journeyID+100)
	require.ErrorIs(t, err, ErrJourneyNotFound)
}

func TestGetJourneyDetail(t *testing.T) {
	fx := newQueryFixture(t)

	d, err := fx.svc.GetJourneyDetail(context.Background(), fx.journeyID)
	require.NoError(t, err)
	assert.Equal(t, "Kyiv", d.Route.Source.Name)
	assert.Equal(t, "Lviv", d.Route.Destination.Name)
	assert.Equal(t, "Kyiv => Lviv", d.Route.Label())
	assert.Equal(t, 540, d.Route.DistanceKm)
	assert.Equal(t, "IC-101", d.Train.Number)
	assert.Equal(t, "Express", d.Train.Type.Name)
}

func TestCountsByJourney(t *testing.T) {
	fx := newQueryFixture(t)
	ctx := context.Background()

	counts, err := fx.svc.CountsByJourney(ctx, fx.journeyID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Free)
	assert.Equal(t, int64(3), counts.Total)

	_, err = fx.store.Inventory().ReserveSeat(ctx, fx.seats[0].ID, fx.journeyID)
	require.NoError(t, err)

	counts, err = fx.svc.CountsByJourney(ctx, fx.journeyID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Free)
	assert.Equal(t, int64(1), counts.Occupied)

	_, err = fx.svc.CountsByJourney(ctx, fx.journeyID+100)
	require.ErrorIs(t, err, ErrJourneyNotFound)
}

func TestGetTicket(t *testing.T) {
	fx := newQueryFixture(t)
	ctx := context.Background()

	const userID = int64(7)
	order, err := fx.store.Orders().Create(ctx, userID)
	require.NoError(t, err)

	seat := fx.seats[1]
	_, err = fx.store.Inventory().ReserveSeat(ctx, seat.ID, fx.journeyID)
	require.NoError(t, err)

	ticket, err := fx.store.Orders().InsertTicket(ctx, domain.Ticket{
		SeatID:               seat.ID,
		JourneyID:            fx.journeyID,
		OrderID:              order.ID,
		CheckedBaggageCharge: true,
	})
	require.NoError(t, err)

	d, err := fx.svc.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, seat.Number, d.SeatNumber)
	assert.Equal(t, "Kyiv => Lviv", d.Journey.Route)
	assert.True(t, d.CheckedBaggageCharge)
	require.NotNil(t, d.MinCheckedBaggageMass)
	assert.Equal(t, 10, *d.MinCheckedBaggageMass)
	assert.Equal(t, fmt.Sprintf("ID %s (user %d)", order.ID, userID), d.OrderRef)

	_, err = fx.svc.GetTicket(ctx, uuid.New())
	require.ErrorIs(t, err, ErrTicketNotFound)
}
