package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/storefront-state/internal/db"
)

// txBeginner is satisfied by *pgxpool.Pool, which starts a transaction, and by
// pgx.Tx, which starts a savepoint inside the caller's transaction.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// inTx runs fn against queries bound to a fresh transaction or savepoint and
// commits only when fn succeeds. A failed batch inside a caller's transaction
// rolls back to its savepoint and leaves that transaction usable.
func inTx(ctx context.Context, conn txBeginner, q *db.Queries, fn func(q *db.Queries) error) (txErr error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("conn.Begin: %w", err)
	}

	defer func() {
		if txErr == nil {
			return
		}
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
		}
	}()

	if err := fn(q.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}
