package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/railgo/internal/domain"
)

type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *CatalogRepo) CreateStation(
	ctx context.Context,
	name string,
	latitude, longitude float64,
) (int64, error) {
	const op = "postgres.CatalogRepo.CreateStation"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO stations(name, latitude, longitude)
       	 VALUES ($1, $2, $3)
     	 RETURNING id`,
		name, latitude, longitude,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) GetStation(ctx context.Context, id int64) (*domain.Station, error) {
	const op = "postgres.CatalogRepo.GetStation"

	db := r.handle()

	var s domain.Station
	err := db.QueryRow(ctx,
		`SELECT id, name, latitude, longitude
       	 FROM stations WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &s, nil
}

func (r *CatalogRepo) ListStations(ctx context.Context, limit, offset int) ([]domain.Station, error) {
	const op = "postgres.CatalogRepo.ListStations"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, latitude, longitude
		 FROM stations
		 ORDER BY name
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Station
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) CreateTrainType(ctx context.Context, name string) (int64, error) {
	const op = "postgres.CatalogRepo.CreateTrainType"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO train_types(name)
       	 VALUES ($1)
     	 RETURNING id`,
		name,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) GetTrainType(ctx context.Context, id int64) (*domain.TrainType, error) {
	const op = "postgres.CatalogRepo.GetTrainType"

	db := r.handle()

	var tt domain.TrainType
	err := db.QueryRow(ctx,
		`SELECT id, name FROM train_types WHERE id = $1`,
		id,
	).Scan(&tt.ID, &tt.Name)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &tt, nil
}

func (r *CatalogRepo) CreateTrain(ctx context.Context, t domain.Train) (int64, error) {
	const op = "postgres.CatalogRepo.CreateTrain"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO trains(number, seat_capacity, train_type_id,
                            min_checked_baggage_mass, max_checked_baggage_mass)
       	 VALUES ($1, $2, $3, $4, $5)
     	 RETURNING id`,
		t.Number, t.SeatCapacity, t.TrainTypeID,
		t.MinCheckedBaggageMass, t.MaxCheckedBaggageMass,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) GetTrain(ctx context.Context, id int64) (*domain.Train, error) {
	const op = "postgres.CatalogRepo.GetTrain"

	db := r.handle()

	var t domain.Train
	err := db.QueryRow(ctx,
		`SELECT id, number, seat_capacity, train_type_id,
                min_checked_baggage_mass, max_checked_baggage_mass
       	 FROM trains WHERE id = $1`,
		id,
	).Scan(
		&t.ID, &t.Number, &t.SeatCapacity, &t.TrainTypeID,
		&t.MinCheckedBaggageMass, &t.MaxCheckedBaggageMass,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &t, nil
}

func (r *CatalogRepo) CreateRoute(ctx context.Context, rt domain.Route) (int64, error) {
	const op = "postgres.CatalogRepo.CreateRoute"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO routes(source_id, destination_id, distance_km)
       	 VALUES ($1, $2, $3)
     	 RETURNING id`,
		rt.SourceID, rt.DestinationID, rt.DistanceKm,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	const op = "postgres.CatalogRepo.GetRoute"

	db := r.handle()

	var rt domain.Route
	err := db.QueryRow(ctx,
		`SELECT id, source_id, destination_id, distance_km
       	 FROM routes WHERE id = $1`,
		id,
	).Scan(&rt.ID, &rt.SourceID, &rt.DestinationID, &rt.DistanceKm)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &rt, nil
}

func (r *CatalogRepo) CreateCrew(ctx context.Context, firstName, lastName string) (int64, error) {
	const op = "postgres.CatalogRepo.CreateCrew"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO crews(first_name, last_name)
       	 VALUES ($1, $2)
     	 RETURNING id`,
		firstName, lastName,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) ListCrew(ctx context.Context, limit, offset int) ([]domain.Crew, error) {
	const op = "postgres.CatalogRepo.ListCrew"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, first_name, last_name
		 FROM crews
		 ORDER BY last_name, first_name
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Crew
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
