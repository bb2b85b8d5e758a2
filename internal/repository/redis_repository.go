package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nikolayk812/storefront-state/internal/port"
	"github.com/redis/go-redis/v9"
)

const redisScanCount = 100

type redisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a KVStore keeping each entry under "<prefix>:<key>".
// Batches run inside MULTI/EXEC so they apply all-or-nothing.
func NewRedis(client *redis.Client, prefix string) (port.KVStore, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if prefix == "" {
		return nil, fmt.Errorf("prefix is empty")
	}

	return &redisRepository{
		client: client,
		prefix: prefix,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", port.ErrNotFound
		}
		return "", fmt.Errorf("client.Get: %w", err)
	}

	return value, nil
}

func (r *redisRepository) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	// no expiration, state lives as long as the installation
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (r *redisRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}

func (r *redisRepository) Apply(ctx context.Context, mutations []port.Mutation) error {
	if err := validateMutations(mutations); err != nil {
		return err
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range mutations {
			if m.Delete {
				pipe.Del(ctx, r.key(m.Key))
				continue
			}
			pipe.Set(ctx, r.key(m.Key), m.Value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("client.TxPipelined: %w", err)
	}

	return nil
}

func (r *redisRepository) List(ctx context.Context) ([]port.Entry, error) {
	var (
		entries []port.Entry
		cursor  uint64
		seen    = make(map[string]struct{})
	)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+":*", redisScanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("client.Scan: %w", err)
		}

		for _, fullKey := range keys {
			// SCAN may return a key more than once
			if _, ok := seen[fullKey]; ok {
				continue
			}
			seen[fullKey] = struct{}{}

			value, err := r.client.Get(ctx, fullKey).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					// deleted between SCAN and GET
					continue
				}
				return nil, fmt.Errorf("client.Get: %w", err)
			}
			entries = append(entries, port.Entry{
				Key:   strings.TrimPrefix(fullKey, r.prefix+":"),
				Value: value,
			})
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	return entries, nil
}

func (r *redisRepository) key(key string) string {
	return r.prefix + ":" + key
}
