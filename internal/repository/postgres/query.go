package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/repository"
)

type QueryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *QueryRepo) With(db DB) *QueryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *QueryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// JourneyWithTrain loads a journey together with its train in one round
// trip. The booking path reads both inside the reservation transaction.
func (r *QueryRepo) JourneyWithTrain(ctx context.Context, journeyID int64) (*domain.Journey, *domain.Train, error) {
	const op = "postgres.QueryRepo.JourneyWithTrain"

	db := r.handle()

	var j domain.Journey
	var t domain.Train
	err := db.QueryRow(ctx,
		`SELECT j.id, j.route_id, j.train_id, j.departure_time, j.arrival_time,
                t.id, t.number, t.seat_capacity, t.train_type_id,
                t.min_checked_baggage_mass, t.max_checked_baggage_mass
       	 FROM journeys j
       	 JOIN trains t ON t.id = j.train_id
      	 WHERE j.id = $1`,
		journeyID,
	).Scan(
		&j.ID, &j.RouteID, &j.TrainID, &j.DepartureTime, &j.ArrivalTime,
		&t.ID, &t.Number, &t.SeatCapacity, &t.TrainTypeID,
		&t.MinCheckedBaggageMass, &t.MaxCheckedBaggageMass,
	)
	if err != nil {
		return nil, nil, wrapDBErr(op, err)
	}

	return &j, &t, nil
}

// JourneySummary projects a journey for list views: route endpoints as one
// label, train type name, crew full names.
func (r *QueryRepo) JourneySummary(ctx context.Context, journeyID int64) (*domain.JourneySummary, error) {
	const op = "postgres.QueryRepo.JourneySummary"

	db := r.handle()

	var s domain.JourneySummary
	var src, dst string
	err := db.QueryRow(ctx,
		`SELECT j.id, s1.name, s2.name, tt.name, j.departure_time, j.arrival_time
       	 FROM journeys j
       	 JOIN routes r ON r.id = j.route_id
       	 JOIN stations s1 ON s1.id = r.source_id
       	 JOIN stations s2 ON s2.id = r.destination_id
       	 JOIN trains t ON t.id = j.train_id
       	 JOIN train_types tt ON tt.id = t.train_type_id
      	 WHERE j.id = $1`,
		journeyID,
	).Scan(&s.ID, &src, &dst, &s.TrainType, &s.DepartureTime, &s.ArrivalTime)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	s.Route = src + " => " + dst

	crew, err := r.journeyCrew(ctx, db, journeyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, c := range crew {
		s.Crew = append(s.Crew, c.FullName())
	}

	return &s, nil
}

// JourneyDetail projects a journey for retrieve views with fully resolved
// route, train and crew records.
func (r *QueryRepo) JourneyDetail(ctx context.Context, journeyID int64) (*domain.JourneyDetail, error) {
	const op = "postgres.QueryRepo.JourneyDetail"

	db := r.handle()

	var d domain.JourneyDetail
	err := db.QueryRow(ctx,
		`SELECT j.id, j.route_id, j.train_id, j.departure_time, j.arrival_time,
                r.id, r.source_id, r.destination_id, r.distance_km,
                s1.id, s1.name, s1.latitude, s1.longitude,
                s2.id, s2.name, s2.latitude, s2.longitude,
                t.id, t.number, t.seat_capacity, t.train_type_id,
                t.min_checked_baggage_mass, t.max_checked_baggage_mass,
                tt.id, tt.name
       	 FROM journeys j
       	 JOIN routes r ON r.id = j.route_id
       	 JOIN stations s1 ON s1.id = r.source_id
       	 JOIN stations s2 ON s2.id = r.destination_id
       	 JOIN trains t ON t.id = j.train_id
       	 JOIN train_types tt ON tt.id = t.train_type_id
      	 WHERE j.id = $1`,
		journeyID,
	).Scan(
		&d.ID, &d.RouteID, &d.TrainID, &d.DepartureTime, &d.ArrivalTime,
		&d.Route.ID, &d.Route.SourceID, &d.Route.DestinationID, &d.Route.DistanceKm,
		&d.Route.Source.ID, &d.Route.Source.Name, &d.Route.Source.Latitude, &d.Route.Source.Longitude,
		&d.Route.Destination.ID, &d.Route.Destination.Name, &d.Route.Destination.Latitude, &d.Route.Destination.Longitude,
		&d.Train.ID, &d.Train.Number, &d.Train.SeatCapacity, &d.Train.TrainTypeID,
		&d.Train.MinCheckedBaggageMass, &d.Train.MaxCheckedBaggageMass,
		&d.Train.Type.ID, &d.Train.Type.Name,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	crew, err := r.journeyCrew(ctx, db, journeyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d.Crew = crew

	return &d, nil
}

// ListJourneys lists journey summaries ordered by departure.
func (r *QueryRepo) ListJourneys(ctx context.Context, limit, offset int) ([]domain.JourneySummary, error) {
	const op = "postgres.QueryRepo.ListJourneys"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT j.id, s1.name, s2.name, tt.name, j.departure_time, j.arrival_time
       	 FROM journeys j
       	 JOIN routes r ON r.id = j.route_id
       	 JOIN stations s1 ON s1.id = r.source_id
       	 JOIN stations s2 ON s2.id = r.destination_id
       	 JOIN trains t ON t.id = j.train_id
       	 JOIN train_types tt ON tt.id = t.train_type_id
      	 ORDER BY j.departure_time
      	 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.JourneySummary
	for rows.Next() {
		var s domain.JourneySummary
		var src, dst string
		if err := rows.Scan(&s.ID, &src, &dst, &s.TrainType, &s.DepartureTime, &s.ArrivalTime); err != nil {
			return nil, wrapDBErr(op, err)
		}

		s.Route = src + " => " + dst
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// CountsByJourney counts free and occupied seats for a journey. A journey
// always has at least one seat, so zero rows means the journey is unknown.
func (r *QueryRepo) CountsByJourney(ctx context.Context, journeyID int64) (*domain.SeatCounts, error) {
	const op = "postgres.QueryRepo.CountsByJourney"

	db := r.handle()

	var sc domain.SeatCounts
	err := db.QueryRow(ctx,
		`SELECT
       	 	COALESCE(SUM(CASE WHEN is_occupied THEN 0 ELSE 1 END), 0),
    	 	COALESCE(SUM(CASE WHEN is_occupied THEN 1 ELSE 0 END), 0)
     	 FROM seats
     	 WHERE journey_id = $1`,
		journeyID,
	).Scan(&sc.Free, &sc.Occupied)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	sc.Total = sc.Free + sc.Occupied
	if sc.Total == 0 {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return &sc, nil
}

// ListJourneySeats lists seats for a journey in seat-number order.
func (r *QueryRepo) ListJourneySeats(
	ctx context.Context,
	journeyID int64,
	onlyFree bool,
	limit, offset int,
) ([]domain.Seat, error) {
	const op = "postgres.QueryRepo.ListJourneySeats"

	db := r.handle()

	q := `SELECT id, journey_id, number, is_occupied
       	  FROM seats
      	  WHERE journey_id = $1
      	  ORDER BY number
      	  LIMIT $2 OFFSET $3`
	if onlyFree {
		q = `SELECT id, journey_id, number, is_occupied
       	     FROM seats
      	     WHERE journey_id = $1 AND is_occupied = FALSE
      	     ORDER BY number
      	     LIMIT $2 OFFSET $3`
	}

	rows, err := db.Query(ctx, q, journeyID, limit, offset)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.JourneyID, &s.Number, &s.IsOccupied); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// TicketDetail projects a ticket: seat number, journey summary, the train's
// baggage thresholds and an order reference.
func (r *QueryRepo) TicketDetail(ctx context.Context, ticketID uuid.UUID) (*domain.TicketDetail, error) {
	const op = "postgres.QueryRepo.TicketDetail"

	db := r.handle()

	var d domain.TicketDetail
	var userID int64
	err := db.QueryRow(ctx,
		`SELECT tk.id, tk.seat_id, tk.journey_id, tk.order_id,
                tk.checked_baggage_charge, tk.created_at,
                st.number,
                t.min_checked_baggage_mass, t.max_checked_baggage_mass,
                o.user_id
       	 FROM tickets tk
       	 JOIN seats st ON st.id = tk.seat_id
       	 JOIN journeys j ON j.id = tk.journey_id
       	 JOIN trains t ON t.id = j.train_id
       	 JOIN orders o ON o.id = tk.order_id
      	 WHERE tk.id = $1`,
		ticketID,
	).Scan(
		&d.Ticket.ID, &d.SeatID, &d.Ticket.JourneyID, &d.OrderID,
		&d.CheckedBaggageCharge, &d.Ticket.CreatedAt,
		&d.SeatNumber,
		&d.MinCheckedBaggageMass, &d.MaxCheckedBaggageMass,
		&userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	summary, err := r.JourneySummary(ctx, d.Ticket.JourneyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d.Journey = *summary
	d.OrderRef = fmt.Sprintf("ID %s (user %d)", d.OrderID, userID)

	return &d, nil
}

// GetOrderWithTickets retrieves an order with its tickets, scoped to the
// requesting user.
func (r *QueryRepo) GetOrderWithTickets(
	ctx context.Context,
	orderID uuid.UUID,
	userID int64,
) (*domain.OrderWithTickets, error) {
	const op = "postgres.QueryRepo.GetOrderWithTickets"

	db := r.handle()

	var out domain.OrderWithTickets

	err := db.QueryRow(ctx,
		`SELECT id, user_id, created_at
         FROM orders
         WHERE id = $1 AND user_id = $2`,
		orderID, userID,
	).Scan(&out.Order.ID, &out.Order.UserID, &out.Order.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT id, seat_id, journey_id, order_id, checked_baggage_charge, created_at
         FROM tickets
      	 WHERE order_id = $1
       	 ORDER BY created_at`,
		orderID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	for rows.Next() {
		var t domain.Ticket

		if err := rows.Scan(
			&t.ID,
			&t.SeatID,
			&t.JourneyID,
			&t.OrderID,
			&t.CheckedBaggageCharge,
			&t.CreatedAt,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out.Tickets = append(out.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *QueryRepo) journeyCrew(ctx context.Context, db DB, journeyID int64) ([]domain.Crew, error) {
	rows, err := db.Query(ctx,
		`SELECT c.id, c.first_name, c.last_name
       	 FROM journey_crew jc
       	 JOIN crews c ON c.id = jc.crew_id
      	 WHERE jc.journey_id = $1
      	 ORDER BY c.last_name, c.first_name`,
		journeyID,
	)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var out []domain.Crew
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}

		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
