package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-state/internal/migrations"
	"github.com/nikolayk812/storefront-state/internal/port"
	"github.com/nikolayk812/storefront-state/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type pgRepositorySuite struct {
	suite.Suite

	pool *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestPgRepositorySuite(t *testing.T) {
	suite.Run(t, new(pgRepositorySuite))
}

// before all tests in the suite
func (suite *pgRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	_, err = migrations.Up(ctx, suite.pool)
	suite.Require().NoError(err)
}

// after all tests in the suite
func (suite *pgRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *pgRepositorySuite) newRepo(t *testing.T) port.KVStore {
	repo, err := repository.NewPostgres(suite.pool, gofakeit.UUID())
	require.NoError(t, err)
	return repo
}

func (suite *pgRepositorySuite) TestContract() {
	defer suite.deleteAll()

	runKVContract(suite.T(), suite.newRepo)
}

func (suite *pgRepositorySuite) TestNamespacesAreIsolated() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	first, second := suite.newRepo(t), suite.newRepo(t)

	require.NoError(t, first.Set(ctx, "cart", "[1]"))

	_, err := second.Get(ctx, "cart")
	require.ErrorIs(t, err, port.ErrNotFound)
}

func (suite *pgRepositorySuite) TestNewPostgres() {
	tests := []struct {
		name      string
		pool      *pgxpool.Pool
		namespace string
		wantError string
	}{
		{
			name:      "valid arguments: ok",
			pool:      suite.pool,
			namespace: gofakeit.UUID(),
		},
		{
			name:      "nil pool: error",
			namespace: gofakeit.UUID(),
			wantError: "pool is nil",
		},
		{
			name:      "empty namespace: error",
			pool:      suite.pool,
			wantError: "namespace is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			repo, err := repository.NewPostgres(tt.pool, tt.namespace)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, repo)
		})
	}
}

func (suite *pgRepositorySuite) TestApplyInsideExternalTx() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	namespace := gofakeit.UUID()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	err = repository.NewPostgresWithTx(tx, namespace).Apply(ctx, []port.Mutation{
		port.SetMutation("account", "{}"),
		port.SetMutation("cart", "[]"),
	})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	// the outer rollback discards the batch
	repo, err := repository.NewPostgres(suite.pool, namespace)
	require.NoError(t, err)
	_, err = repo.Get(ctx, "account")
	require.ErrorIs(t, err, port.ErrNotFound)
}

func (suite *pgRepositorySuite) TestApplyInsideExternalTx_FailedBatchKeepsTxUsable() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	namespace := gofakeit.UUID()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	repo := repository.NewPostgresWithTx(tx, namespace)
	require.NoError(t, repo.Set(ctx, "account", "{}"))

	// postgres rejects NUL bytes in text, failing the second statement
	err = repo.Apply(ctx, []port.Mutation{
		port.SetMutation("cart", "[]"),
		port.SetMutation("wishlist", "bad\x00value"),
	})
	require.Error(t, err)

	require.NoError(t, repo.Set(ctx, "wishlist", "[]"))
	require.NoError(t, tx.Commit(ctx))

	committed, err := repository.NewPostgres(suite.pool, namespace)
	require.NoError(t, err)

	got, err := committed.Get(ctx, "account")
	require.NoError(t, err)
	assert.Equal(t, "{}", got)

	got, err = committed.Get(ctx, "wishlist")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	_, err = committed.Get(ctx, "cart")
	require.ErrorIs(t, err, port.ErrNotFound)
}

func (suite *pgRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE kv_entries")
	suite.NoError(err)
}
