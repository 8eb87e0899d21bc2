package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/railgo/internal/domain"
)

type JourneyRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *JourneyRepo) With(db DB) *JourneyRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *JourneyRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *JourneyRepo) Create(
	ctx context.Context,
	routeID, trainID int64,
	departure, arrival time.Time,
) (int64, error) {
	const op = "postgres.JourneyRepo.Create"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO journeys(route_id, train_id, departure_time, arrival_time)
       	 VALUES ($1, $2, $3, $4)
     	 RETURNING id`,
		routeID, trainID, departure, arrival,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *JourneyRepo) Get(ctx context.Context, id int64) (*domain.Journey, error) {
	const op = "postgres.JourneyRepo.Get"

	db := r.handle()

	var j domain.Journey
	err := db.QueryRow(ctx,
		`SELECT id, route_id, train_id, departure_time, arrival_time
       	 FROM journeys WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.RouteID, &j.TrainID, &j.DepartureTime, &j.ArrivalTime)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &j, nil
}

// LinkCrew attaches crew members to a journey. Must run inside the same
// transaction as the journey insert.
func (r *JourneyRepo) LinkCrew(ctx context.Context, journeyID int64, crewIDs []int64) error {
	const op = "postgres.JourneyRepo.LinkCrew"

	db := r.handle()

	batch := &pgx.Batch{}
	for _, cid := range crewIDs {
		batch.Queue(
			`INSERT INTO journey_crew(journey_id, crew_id)
         	 VALUES ($1, $2)`,
			journeyID, cid,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// GenerateSeats creates the full seat inventory for a journey: one free seat
// per capacity slot, numbered 1..capacity. Runs in the journey-creation
// transaction so a journey with partial seats is never observable.
func (r *JourneyRepo) GenerateSeats(ctx context.Context, journeyID int64, capacity int) (int64, error) {
	const op = "postgres.JourneyRepo.GenerateSeats"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`INSERT INTO seats(journey_id, number, is_occupied)
       	 SELECT $1, n, FALSE
         FROM generate_series(1, $2) AS n`,
		journeyID, capacity,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}
