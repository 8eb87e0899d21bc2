package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/kirinyoku/railgo/internal/repository/postgres"
)

// maxAttempts bounds retries of serialization failures and deadlocks.
const maxAttempts = 3

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// UoW represents a unit of work.
type UoW struct {
	store *postgres.Store
}

func NewUoW(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside the transaction. After a successful commit,
// it executes all after-commit hooks.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts runs fn inside the transaction with the given options. After a
// successful commit, it executes all after-commit hooks. Serialization
// failures restart fn in a fresh transaction, so fn must tolerate being run
// more than once; hooks registered by a failed attempt are discarded.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	var err error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		var hooks []AfterCommit

		err = u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgres.DB) error {
			return fn(ctx, tx, func(h AfterCommit) {
				hooks = append(hooks, h)
			})
		})
		if err == nil {
			for _, h := range hooks {
				h(ctx)
			}

			return nil
		}

		if !postgres.IsRetryable(err) {
			return err
		}

		if ctx.Err() != nil {
			return err
		}
	}

	return err
}
