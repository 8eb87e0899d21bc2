package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/railgo/internal/domain"
	postgresrepo "github.com/kirinyoku/railgo/internal/repository/postgres"
	"github.com/kirinyoku/railgo/internal/service/inventory"
	"github.com/kirinyoku/railgo/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

type bookingFixture struct {
	store     *postgresrepo.Store
	booking   *Service
	journeyID int64
	seats     []domain.Seat
	orderID   uuid.UUID
	userID    int64
}

// newBookingFixture stands up the Kyiv to Lviv scenario used across the
// booking tests: an Express IC-101 with 5 seats departing at fixedNow+24h,
// and an open order for user 1.
func newBookingFixture(t *testing.T, now func() time.Time) *bookingFixture {
	t.Helper()

	pool := testdb.New(t)
	store := postgresrepo.NewStore(pool)
	ctx := context.Background()

	catalog := store.Catalog()

	kyiv, err := catalog.CreateStation(ctx, "Kyiv", 50.4501, 30.5234)
	require.NoError(t, err)

	lviv, err := catalog.CreateStation(ctx, "Lviv", 49.8397, 24.0297)
	require.NoError(t, err)

	routeID, err := catalog.CreateRoute(ctx, domain.Route{
		SourceID: kyiv, DestinationID: lviv, DistanceKm: 540,
	})
	require.NoError(t, err)

	typeID, err := catalog.CreateTrainType(ctx, "Express")
	require.NoError(t, err)

	trainID, err := catalog.CreateTrain(ctx, domain.Train{
		Number:                "IC-101",
		SeatCapacity:          5,
		TrainTypeID:           typeID,
		MinCheckedBaggageMass: intPtr(10),
		MaxCheckedBaggageMass: intPtr(20),
	})
	require.NoError(t, err)

	departure := now().Add(24 * time.Hour).Truncate(time.Second)
	journeyID, err := inventory.New(store, nil, nil).CreateJourney(
		ctx, routeID, trainID, departure, departure.Add(5*time.Hour), nil)
	require.NoError(t, err)

	seats, err := store.Query().ListJourneySeats(ctx, journeyID, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, seats, 5)

	const userID = int64(1)
	order, err := store.Orders().Create(ctx, userID)
	require.NoError(t, err)

	return &bookingFixture{
		store:     store,
		booking:   New(store, nil, nil, nil, Config{Now: now}),
		journeyID: journeyID,
		seats:     seats,
		orderID:   order.ID,
		userID:    userID,
	}
}

func TestCreateTicket(t *testing.T) {
	fixedNow := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fx := newBookingFixture(t, func() time.Time { return fixedNow })
	ctx := context.Background()

	seat := fx.seats[0]

	ticket, err := fx.booking.CreateTicket(ctx,
		seat.ID, fx.journeyID, fx.orderID, fx.userID, intPtr(15), "")
	require.NoError(t, err)

	assert.Equal(t, seat.ID, ticket.SeatID)
	assert.Equal(t, fx.journeyID, ticket.JourneyID)
	assert.Equal(t, fx.orderID, ticket.OrderID)
	assert.True(t, ticket.CheckedBaggageCharge, "15kg exceeds the 10kg free allowance")
	assert.NotEqual(t, uuid.Nil, ticket.ID)

	got, err := fx.store.Inventory().GetSeat(ctx, seat.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOccupied)

	counts, err := fx.store.Query().CountsByJourney(ctx, fx.journeyID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), counts.Free)
	assert.Equal(t, int64(1), counts.Occupied)

	// Same seat again loses, and the journey inventory is unchanged.
	_, err = fx.booking.CreateTicket(ctx,
		seat.ID, fx.journeyID, fx.orderID, fx.userID, nil, "")
	require.ErrorIs(t, err, ErrSeatAlreadyOccupied)

	var occErr SeatOccupiedError
	require.ErrorAs(t, err, &occErr)
	assert.Equal(t, seat.ID, occErr.SeatID)

	counts, err = fx.store.Query().CountsByJourney(ctx, fx.journeyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Occupied)
}

func TestCreateTicketBaggageCharge(t *testing.T) {
	fixedNow := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fx := newBookingFixture(t, func() time.Time { return fixedNow })
	ctx := context.Background()

	// At the free allowance: no charge.
	ticket, err := fx.booking.CreateTicket(ctx,
		fx.seats[0].ID, fx.journeyID, fx.orderID, fx.userID, intPtr(10), "")
	require.NoError(t, err)
	assert.False(t, ticket.CheckedBaggageCharge)

	// No declared baggage: no charge.
	ticket, err = fx.booking.CreateTicket(ctx,
		fx.seats[1].ID, fx.journeyID, fx.orderID, fx.userID, nil, "")
	require.NoError(t, err)
	assert.False(t, ticket.CheckedBaggageCharge)
}

// A disabled rate limit wires through as a nil limiter; purchases must not
// be throttled even when a bucket key is supplied.
func TestCreateTicketNilLimiterSkipsThrottling(t *testing.T) {
	fixedNow := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fx := newBookingFixture(t, func() time.Time { return fixedNow })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := fx.booking.CreateTicket(ctx,
			fx.seats[i].ID, fx.journeyID, fx.orderID, fx.userID, nil, "ip:203.0.113.7")
		require.NoError(t, err)
	}
}

func TestCreateTicketJourneyClosed(t *testing.T) {
	fixedNow := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fx := newBookingFixture(t, func() time.Time { return fixedNow })
	ctx := context.Background()

	// Move the clock past departure.
	fx.booking = New(fx.store, nil, nil, nil, Config{
		Now: func() time.Time { return fixedNow.Add(48 * time.Hour) },
	})

	_, err := fx.booking.CreateTicket(ctx,
		fx.seats[0].ID, fx.journeyID, fx.orderID, fx.userID, nil, "")
	require.ErrorIs(t, err, ErrJourneyClosed)

	// Nothing was reserved.
	counts, err := fx.store.Query().CountsByJourney(ctx, fx.journeyID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), counts.Free)
}

func TestCreateTicketForeignOrder(t *testing.T) {
	fixedNow := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fx := newBookingFixture(t, func() time.Time { return fixedNow })
	ctx := context.Background()

	// Another user cannot book into this order, and the order's existence
	// does not leak.
	const intruder = int64(2)
	_, err := fx.booking.CreateTicket(ctx,
		fx.seats[0].ID, fx.journeyID, fx.orderID, intruder, nil, "")
	require.ErrorIs(t, err, ErrOrderNotFound)

	counts, err := fx.store.Query().CountsByJourney(ctx, fx.journeyID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), counts.Free)
}

func TestCreateTicketUnknownJourney(t *testing.T) {
	fixedNow := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fx := newBookingFixture(t, func() time.Time { return fixedNow })

	_, err := fx.booking.CreateTicket(context.Background(),
		fx.seats[0].ID, fx.journeyID+100, fx.orderID, fx.userID, nil, "")
	require.ErrorIs(t, err, ErrJourneyNotFound)
}

// ReserveSeat takes a seat out of circulation without a ticket; a later
// purchase of the same seat must lose.
func TestReserveSeatStandalone(t *testing.T) {
	fixedNow := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fx := newBookingFixture(t, func() time.Time { return fixedNow })
	ctx := context.Background()

	seat := fx.seats[0]

	got, err := fx.booking.ReserveSeat(ctx, seat.ID, fx.journeyID)
	require.NoError(t, err)
	assert.True(t, got.IsOccupied)
	assert.Equal(t, seat.Number, got.Number)

	_, err = fx.booking.ReserveSeat(ctx, seat.ID, fx.journeyID)
	require.ErrorIs(t, err, ErrSeatAlreadyOccupied)

	_, err = fx.booking.CreateTicket(ctx,
		seat.ID, fx.journeyID, fx.orderID, fx.userID, nil, "")
	require.ErrorIs(t, err, ErrSeatAlreadyOccupied)

	counts, err := fx.store.Query().CountsByJourney(ctx, fx.journeyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Occupied)
}

func TestCreateTicketSeatJourneyMismatch(t *testing.T) {
	fixedNow := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fx := newBookingFixture(t, func() time.Time { return fixedNow })
	ctx := context.Background()

	journey, err := fx.store.Journeys().Get(ctx, fx.journeyID)
	require.NoError(t, err)

	departure := fixedNow.Add(72 * time.Hour)
	otherID, err := inventory.New(fx.store, nil, nil).CreateJourney(
		ctx, journey.RouteID, journey.TrainID, departure, departure.Add(5*time.Hour), nil)
	require.NoError(t, err)

	_, err = fx.booking.CreateTicket(ctx,
		fx.seats[0].ID, otherID, fx.orderID, fx.userID, nil, "")
	require.ErrorIs(t, err, ErrSeatJourneyMismatch)
}
