package httpgin

import (
	"time"
)

type CreateStationRequest struct {
	Name      string  `json:"name" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

type CreateStationResponse struct {
	StationID int64 `json:"station_id"`
}

type CreateTrainTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateTrainTypeResponse struct {
	TrainTypeID int64 `json:"train_type_id"`
}

type CreateTrainRequest struct {
	Number                string `json:"number" binding:"required"`
	SeatCapacity          int    `json:"seat_capacity" binding:"required,gt=0"`
	TrainTypeID           int64  `json:"train_type_id" binding:"required"`
	MinCheckedBaggageMass *int   `json:"min_checked_baggage_mass"`
	MaxCheckedBaggageMass *int   `json:"max_checked_baggage_mass"`
}

type CreateTrainResponse struct {
	TrainID int64 `json:"train_id"`
}

type CreateRouteRequest struct {
	SourceID      int64 `json:"source_id" binding:"required"`
	DestinationID int64 `json:"destination_id" binding:"required"`
	DistanceKm    int   `json:"distance_km" binding:"required,gt=0"`
}

type CreateRouteResponse struct {
	RouteID int64 `json:"route_id"`
}

type CreateCrewRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type CreateCrewResponse struct {
	CrewID int64 `json:"crew_id"`
}

type CreateJourneyRequest struct {
	RouteID       int64   `json:"route_id" binding:"required"`
	TrainID       int64   `json:"train_id" binding:"required"`
	DepartureTime string  `json:"departure_time" binding:"required"`
	ArrivalTime   string  `json:"arrival_time" binding:"required"`
	CrewIDs       []int64 `json:"crew_ids"`
}

type CreateJourneyResponse struct {
	JourneyID int64 `json:"journey_id"`
}

type CreateOrderResponse struct {
	OrderID   string    `json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateTicketRequest struct {
	SeatID        int64  `json:"seat_id" binding:"required"`
	JourneyID     int64  `json:"journey_id" binding:"required"`
	OrderID       string `json:"order_id" binding:"required,uuid"`
	BaggageMassKg *int   `json:"baggage_mass_kg" binding:"omitempty,gte=0"`
}

type CreateTicketResponse struct {
	TicketID             string `json:"ticket_id"`
	SeatID               int64  `json:"seat_id"`
	JourneyID            int64  `json:"journey_id"`
	OrderID              string `json:"order_id"`
	CheckedBaggageCharge bool   `json:"checked_baggage_charge"`
}

type ReserveSeatRequest struct {
	SeatID    int64 `json:"seat_id" binding:"required"`
	JourneyID int64 `json:"journey_id" binding:"required"`
}

type ReserveSeatResponse struct {
	SeatID     int64 `json:"seat_id"`
	JourneyID  int64 `json:"journey_id"`
	Number     int   `json:"number"`
	IsOccupied bool  `json:"is_occupied"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
