package domain

import "time"

// Read-side projections. These carry resolved names instead of foreign keys
// and have no invariants of their own.

type RouteDetail struct {
	Route
	Source      Station
	Destination Station
}

func (r RouteDetail) Label() string {
	return r.Source.Name + " => " + r.Destination.Name
}

type TrainDetail struct {
	Train
	Type TrainType
}

type JourneySummary struct {
	ID            int64
	Route         string // "Kyiv => Lviv"
	TrainType     string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Crew          []string // full names
}

type JourneyDetail struct {
	Journey
	Route RouteDetail
	Train TrainDetail
	Crew  []Crew
}

type TicketDetail struct {
	Ticket
	SeatNumber            int
	Journey               JourneySummary
	MinCheckedBaggageMass *int
	MaxCheckedBaggageMass *int
	OrderRef              string // "ID <order> (user <id>)"
}
