// Package migrations carries the Postgres schema as goose migrations.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

// Up applies every pending migration and returns how many ran.
func Up(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var applied int

	err := withProvider(pool, func(p *goose.Provider) error {
		results, err := p.Up(ctx)
		if err != nil {
			return fmt.Errorf("p.Up: %w", err)
		}
		applied = len(results)
		return nil
	})

	return applied, err
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, pool *pgxpool.Pool) error {
	return withProvider(pool, func(p *goose.Provider) error {
		if _, err := p.Down(ctx); err != nil {
			return fmt.Errorf("p.Down: %w", err)
		}
		return nil
	})
}

func withProvider(pool *pgxpool.Pool, fn func(p *goose.Provider) error) error {
	if pool == nil {
		return fmt.Errorf("pool is nil")
	}

	// closing this handle leaves the pool open
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) { _ = db.Close() }(sqlDB)

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, files)
	if err != nil {
		return fmt.Errorf("goose.NewProvider: %w", err)
	}

	return fn(provider)
}
