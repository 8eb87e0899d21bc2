package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kirinyoku/railgo/internal/repository"
)

// IsRetryable reports whether err is a serialization failure or deadlock,
// both of which a caller may safely retry.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
	}

	return false
}

// wrapDBErr maps common DB errors to repository-level errors and wraps them
// with the provided operation name.
func wrapDBErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		switch pge.Code {
		// unique_violation
		case "23505":
			return fmt.Errorf("%s: %w", op, repository.ErrConflict)
		// foreign_key_violation: the referenced row is gone
		case "23503":
			return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
