package state

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nikolayk812/storefront-state/internal/port"
	"go.uber.org/zap"
)

// RetryConfig bounds how hard a single write is retried before it is reported
// as a storage failure. Attempts counts the first try.
type RetryConfig struct {
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:        3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

type persister struct {
	kv     port.KVStore
	retry  RetryConfig
	logger *zap.Logger
}

func (p *persister) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.retry.InitialInterval
	exp.MaxInterval = p.retry.MaxInterval
	// attempts are bounded by count, not by elapsed time
	exp.MaxElapsedTime = 0
	exp.Reset()

	retries := p.retry.Attempts - 1
	if retries < 0 {
		retries = 0
	}

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// write persists the mutations. A single mutation goes through Set or Delete,
// several go through one atomic Apply.
func (p *persister) write(ctx context.Context, op string, mutations []port.Mutation) error {
	keys := mutationKeys(mutations)

	err := backoff.RetryNotify(func() error {
		return p.writeOnce(ctx, mutations)
	}, p.backOff(ctx), func(err error, wait time.Duration) {
		p.logger.Warn("retrying state write",
			zap.String("op", op),
			zap.Strings("keys", keys),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	if err != nil {
		return &StorageError{Op: op, Keys: keys, Err: err}
	}

	return nil
}

func (p *persister) writeOnce(ctx context.Context, mutations []port.Mutation) error {
	if len(mutations) != 1 {
		return p.kv.Apply(ctx, mutations)
	}

	m := mutations[0]
	if m.Delete {
		return p.kv.Delete(ctx, m.Key)
	}
	return p.kv.Set(ctx, m.Key, m.Value)
}

// read returns the stored value and false when the key is absent.
func (p *persister) read(ctx context.Context, op, key string) (string, bool, error) {
	var value string

	err := backoff.RetryNotify(func() error {
		v, err := p.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, port.ErrNotFound) {
				return backoff.Permanent(err)
			}
			return err
		}
		value = v
		return nil
	}, p.backOff(ctx), func(err error, wait time.Duration) {
		p.logger.Warn("retrying state read",
			zap.String("op", op),
			zap.String("key", key),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return "", false, nil
		}
		return "", false, &StorageError{Op: op, Keys: []string{key}, Err: err}
	}

	return value, true, nil
}

func mutationKeys(mutations []port.Mutation) []string {
	keys := make([]string, 0, len(mutations))
	for _, m := range mutations {
		keys = append(keys, m.Key)
	}
	return keys
}
