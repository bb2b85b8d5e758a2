package repository

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront-state/internal/port"
	bolt "go.etcd.io/bbolt"
)

type boltRepository struct {
	db     *bolt.DB
	bucket []byte
}

// NewBolt returns a KVStore over a bbolt file, one bucket per namespace. Every
// write is a read-write transaction that is fsynced before it returns.
func NewBolt(db *bolt.DB, namespace string) (port.KVStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if namespace == "" {
		return nil, fmt.Errorf("namespace is empty")
	}

	bucket := []byte(namespace)
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("db.Update: %w", err)
	}

	return &boltRepository{
		db:     db,
		bucket: bucket,
	}, nil
}

func (r *boltRepository) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		value string
		found bool
	)

	err := r.db.View(func(tx *bolt.Tx) error {
		b, err := r.bucketOf(tx)
		if err != nil {
			return err
		}

		// the slice is only valid inside the transaction
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("db.View: %w", err)
	}
	if !found {
		return "", port.ErrNotFound
	}

	return value, nil
}

func (r *boltRepository) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	return r.Apply(ctx, []port.Mutation{port.SetMutation(key, value)})
}

func (r *boltRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	return r.Apply(ctx, []port.Mutation{port.DeleteMutation(key)})
}

func (r *boltRepository) Apply(ctx context.Context, mutations []port.Mutation) error {
	if err := validateMutations(mutations); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		b, err := r.bucketOf(tx)
		if err != nil {
			return err
		}

		for _, m := range mutations {
			if m.Delete {
				if err := b.Delete([]byte(m.Key)); err != nil {
					return fmt.Errorf("b.Delete[%s]: %w", m.Key, err)
				}
				continue
			}

			if err := b.Put([]byte(m.Key), []byte(m.Value)); err != nil {
				return fmt.Errorf("b.Put[%s]: %w", m.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("db.Update: %w", err)
	}

	return nil
}

func (r *boltRepository) List(ctx context.Context) ([]port.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []port.Entry

	err := r.db.View(func(tx *bolt.Tx) error {
		b, err := r.bucketOf(tx)
		if err != nil {
			return err
		}

		// keys come back in byte order
		return b.ForEach(func(k, v []byte) error {
			entries = append(entries, port.Entry{Key: string(k), Value: string(v)})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("db.View: %w", err)
	}

	return entries, nil
}

func (r *boltRepository) bucketOf(tx *bolt.Tx) (*bolt.Bucket, error) {
	b := tx.Bucket(r.bucket)
	if b == nil {
		return nil, fmt.Errorf("bucket %q not found", r.bucket)
	}
	return b, nil
}
