package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-state/internal/db"
	"github.com/nikolayk812/storefront-state/internal/port"
)

type pgRepository struct {
	q         *db.Queries
	conn      txBeginner
	namespace string
}

// NewPostgres returns a KVStore over the kv_entries table. Entries are scoped
// by namespace so several devices can share one database.
func NewPostgres(pool *pgxpool.Pool, namespace string) (port.KVStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if namespace == "" {
		return nil, fmt.Errorf("namespace is empty")
	}

	return &pgRepository{
		q:         db.New(pool),
		conn:      pool,
		namespace: namespace,
	}, nil
}

// NewPostgresWithTx returns a KVStore bound to the caller's transaction. Each
// Apply runs in its own savepoint; the caller decides whether to commit.
func NewPostgresWithTx(tx pgx.Tx, namespace string) port.KVStore {
	return &pgRepository{
		q:         db.New(tx),
		conn:      tx,
		namespace: namespace,
	}
}

func (r *pgRepository) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	value, err := r.q.GetEntry(ctx, db.GetEntryParams{
		Namespace: r.namespace,
		Key:       key,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", port.ErrNotFound
		}
		return "", fmt.Errorf("q.GetEntry: %w", err)
	}

	return value, nil
}

func (r *pgRepository) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	err := r.q.SetEntry(ctx, db.SetEntryParams{
		Namespace: r.namespace,
		Key:       key,
		Value:     value,
	})
	if err != nil {
		return fmt.Errorf("q.SetEntry: %w", err)
	}

	return nil
}

func (r *pgRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	// deleting a missing key is not an error
	_, err := r.q.DeleteEntry(ctx, db.DeleteEntryParams{
		Namespace: r.namespace,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("q.DeleteEntry: %w", err)
	}

	return nil
}

func (r *pgRepository) Apply(ctx context.Context, mutations []port.Mutation) error {
	if err := validateMutations(mutations); err != nil {
		return err
	}

	err := inTx(ctx, r.conn, r.q, func(q *db.Queries) error {
		for _, m := range mutations {
			if m.Delete {
				if _, err := q.DeleteEntry(ctx, db.DeleteEntryParams{Namespace: r.namespace, Key: m.Key}); err != nil {
					return fmt.Errorf("q.DeleteEntry[%s]: %w", m.Key, err)
				}
				continue
			}

			err := q.SetEntry(ctx, db.SetEntryParams{Namespace: r.namespace, Key: m.Key, Value: m.Value})
			if err != nil {
				return fmt.Errorf("q.SetEntry[%s]: %w", m.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("inTx: %w", err)
	}

	return nil
}

func (r *pgRepository) List(ctx context.Context) ([]port.Entry, error) {
	rows, err := r.q.ListEntries(ctx, r.namespace)
	if err != nil {
		return nil, fmt.Errorf("q.ListEntries: %w", err)
	}

	return mapEntryRowsToPort(rows), nil
}

func mapEntryRowsToPort(rows []db.KvEntry) []port.Entry {
	var entries []port.Entry

	for _, row := range rows {
		entries = append(entries, port.Entry{Key: row.Key, Value: row.Value})
	}

	return entries
}

func validateMutations(mutations []port.Mutation) error {
	for i, m := range mutations {
		if m.Key == "" {
			return fmt.Errorf("mutation[%d]: key is empty", i)
		}
	}
	return nil
}
