package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-state/internal/config"
	"github.com/nikolayk812/storefront-state/internal/migrations"
	"github.com/nikolayk812/storefront-state/internal/port"
	"github.com/nikolayk812/storefront-state/internal/repository"
	"github.com/redis/go-redis/v9"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// boltLockTimeout bounds the wait for another process holding the state file.
const boltLockTimeout = time.Second

// openBackend builds the key-value store named by cfg.Backend. The returned
// func releases its connections.
func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (port.KVStore, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendMemory:
		return repository.NewMemory(), noop, nil

	case config.BackendBolt:
		if err := os.MkdirAll(filepath.Dir(cfg.Bolt.Path), 0o700); err != nil {
			return nil, noop, fmt.Errorf("create state dir: %w", err)
		}
		db, err := bolt.Open(cfg.Bolt.Path, 0o600, &bolt.Options{Timeout: boltLockTimeout})
		if err != nil {
			return nil, noop, fmt.Errorf("bolt.Open: %w", err)
		}
		kv, err := repository.NewBolt(db, cfg.Namespace)
		if err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("repository.NewBolt: %w", err)
		}
		logger.Debug("using bolt backend", zap.String("path", cfg.Bolt.Path), zap.String("namespace", cfg.Namespace))
		return kv, func() { _ = db.Close() }, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("pool.Ping: %w", err)
		}
		applied, err := migrations.Up(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("migrations.Up: %w", err)
		}
		if applied > 0 {
			logger.Info("applied migrations", zap.Int("count", applied))
		}
		kv, err := repository.NewPostgres(pool, cfg.Namespace)
		if err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("repository.NewPostgres: %w", err)
		}
		logger.Debug("using postgres backend", zap.String("namespace", cfg.Namespace))
		return kv, pool.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("client.Ping: %w", err)
		}
		kv, err := repository.NewRedis(client, cfg.Redis.Prefix)
		if err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("repository.NewRedis: %w", err)
		}
		logger.Debug("using redis backend", zap.String("addr", cfg.Redis.Addr), zap.String("prefix", cfg.Redis.Prefix))
		return kv, func() { _ = client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
