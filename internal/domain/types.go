package domain

import (
	"time"

	"github.com/google/uuid"
)

type Station struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
}

type TrainType struct {
	ID   int64
	Name string
}

type Train struct {
	ID           int64
	Number       string
	SeatCapacity int
	TrainTypeID  int64
	// Checked-baggage thresholds in kilograms. Both nil when the train
	// carries no checked baggage.
	MinCheckedBaggageMass *int
	MaxCheckedBaggageMass *int
}

type Route struct {
	ID            int64
	SourceID      int64
	DestinationID int64
	DistanceKm    int
}

type Crew struct {
	ID        int64
	FirstName string
	LastName  string
}

func (c Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Journey struct {
	ID            int64
	RouteID       int64
	TrainID       int64
	DepartureTime time.Time
	ArrivalTime   time.Time
}

type Seat struct {
	ID         int64
	JourneyID  int64
	Number     int
	IsOccupied bool
}

type SeatCounts struct {
	Free     int64
	Occupied int64
	Total    int64
}

type Order struct {
	ID        uuid.UUID
	UserID    int64
	CreatedAt time.Time
}

type Ticket struct {
	ID                   uuid.UUID
	SeatID               int64
	JourneyID            int64
	OrderID              uuid.UUID
	CheckedBaggageCharge bool
	CreatedAt            time.Time
}

type OrderWithTickets struct {
	Order   Order
	Tickets []Ticket
}
