package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/railgo/internal/domain"
)

type OrderRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OrderRepo) With(db DB) *OrderRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OrderRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *OrderRepo) Create(ctx context.Context, userID int64) (*domain.Order, error) {
	const op = "postgres.OrderRepo.Create"

	db := r.handle()

	o := domain.Order{ID: uuid.New(), UserID: userID}
	err := db.QueryRow(ctx,
		`INSERT INTO orders(id, user_id)
       	 VALUES ($1, $2)
     	 RETURNING created_at`,
		o.ID, o.UserID,
	).Scan(&o.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &o, nil
}

// Get scopes the read to the requesting user: someone else's order reads as
// not found, never as forbidden.
func (r *OrderRepo) Get(ctx context.Context, id uuid.UUID, userID int64) (*domain.Order, error) {
	const op = "postgres.OrderRepo.Get"

	db := r.handle()

	var o domain.Order
	err := db.QueryRow(ctx,
		`SELECT id, user_id, created_at
       	 FROM orders
      	 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&o.ID, &o.UserID, &o.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &o, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	const op = "postgres.OrderRepo.ListByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, user_id, created_at
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// InsertTicket persists a ticket for an already-reserved seat. It must run
// inside the same transaction as the seat flip: if the insert fails, the
// flip rolls back with it.
func (r *OrderRepo) InsertTicket(ctx context.Context, t domain.Ticket) (*domain.Ticket, error) {
	const op = "postgres.OrderRepo.InsertTicket"

	db := r.handle()

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	err := db.QueryRow(ctx,
		`INSERT INTO tickets(id, seat_id, journey_id, order_id, checked_baggage_charge)
       	 VALUES ($1, $2, $3, $4, $5)
     	 RETURNING created_at`,
		t.ID, t.SeatID, t.JourneyID, t.OrderID, t.CheckedBaggageCharge,
	).Scan(&t.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &t, nil
}
