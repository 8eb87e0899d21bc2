package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/railgo/internal/domain"
	"github.com/kirinyoku/railgo/internal/repository"
)

type InventoryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *InventoryRepo) With(db DB) *InventoryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *InventoryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// ReserveSeat atomically flips a free seat to occupied. The check and the
// flip share one row lock, so of any number of concurrent callers targeting
// the same seat exactly one succeeds.
//
// Returns:
//   - *domain.Seat: the now-occupied seat on success.
//   - error: repository.ErrSeatNotFound if seatID does not exist.
//   - error: repository.ErrSeatJourneyMismatch if the seat belongs to
//     another journey.
//   - error: repository.ErrSeatAlreadyOccupied if the seat is taken at the
//     moment of commit.
//
// Every failure leaves storage unchanged.
func (r *InventoryRepo) ReserveSeat(
	ctx context.Context,
	seatID, journeyID int64,
) (*domain.Seat, error) {
	const op = "postgres.InventoryRepo.ReserveSeat"

	if r.db != nil {
		seat, err := r.reserveSeatCore(ctx, r.db, seatID, journeyID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return seat, nil
	}

	// Read committed is enough here: the row lock carries the check through
	// the flip, and a waiter re-reads the committed row instead of failing
	// with a serialization error.
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer tx.Rollback(ctx)

	seat, err := r.reserveSeatCore(ctx, tx, seatID, journeyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return seat, nil
}

func (r *InventoryRepo) reserveSeatCore(
	ctx context.Context,
	db DB,
	seatID, journeyID int64,
) (*domain.Seat, error) {
	var s domain.Seat

	// FOR UPDATE keeps the row locked through the flip, so the distinction
	// between mismatch and occupied is made against a stable row.
	err := db.QueryRow(ctx,
		`SELECT id, journey_id, number, is_occupied
       	 FROM seats
      	 WHERE id = $1
     	 FOR UPDATE`,
		seatID,
	).Scan(&s.ID, &s.JourneyID, &s.Number, &s.IsOccupied)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSeatNotFound
		}
		return nil, err
	}

	if s.JourneyID != journeyID {
		return nil, repository.ErrSeatJourneyMismatch
	}

	if s.IsOccupied {
		return nil, repository.ErrSeatAlreadyOccupied
	}

	tag, err := db.Exec(ctx,
		`UPDATE seats
        	SET is_occupied = TRUE
      	 WHERE id = $1
        	AND is_occupied = FALSE`,
		seatID,
	)
	if err != nil {
		return nil, err
	}

	if tag.RowsAffected() != 1 {
		return nil, repository.ErrSeatAlreadyOccupied
	}

	s.IsOccupied = true

	return &s, nil
}

// GetSeat reads a seat without locking it.
func (r *InventoryRepo) GetSeat(ctx context.Context, seatID int64) (*domain.Seat, error) {
	const op = "postgres.InventoryRepo.GetSeat"

	db := r.handle()

	var s domain.Seat
	err := db.QueryRow(ctx,
		`SELECT id, journey_id, number, is_occupied
       	 FROM seats WHERE id = $1`,
		seatID,
	).Scan(&s.ID, &s.JourneyID, &s.Number, &s.IsOccupied)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &s, nil
}
