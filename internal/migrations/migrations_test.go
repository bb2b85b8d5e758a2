package migrations_test

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-state/internal/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestUpDown(t *testing.T) {
	ctx := t.Context()

	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, postgresContainer)
	require.NoError(t, err)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tableExists := func() bool {
		var exists bool
		err := pool.QueryRow(ctx, "SELECT to_regclass('kv_entries') IS NOT NULL").Scan(&exists)
		require.NoError(t, err)
		return exists
	}

	applied, err := migrations.Up(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.True(t, tableExists())

	// nothing pending on a second run
	applied, err = migrations.Up(ctx, pool)
	require.NoError(t, err)
	assert.Zero(t, applied)

	require.NoError(t, migrations.Down(ctx, pool))
	assert.False(t, tableExists())

	applied, err = migrations.Up(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.True(t, tableExists())
}

func TestUp_NilPool(t *testing.T) {
	_, err := migrations.Up(t.Context(), nil)
	require.EqualError(t, err, "pool is nil")
}
