package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicketsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railgo_tickets_issued_total",
		Help: "Tickets successfully persisted.",
	})

	SeatConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railgo_seat_conflicts_total",
		Help: "Reservation attempts that lost the race for an occupied seat.",
	})

	JourneysCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railgo_journeys_created_total",
		Help: "Journeys scheduled, each with a full seat inventory.",
	})

	SeatsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railgo_seats_generated_total",
		Help: "Seat rows generated during journey creation.",
	})
)
