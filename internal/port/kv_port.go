package port

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KVStore is the durable string-keyed store the state layer persists into.
type KVStore interface {
	// Get returns ErrNotFound when the key has never been written or was deleted.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Apply writes all mutations atomically: either every one is durable or none is.
	Apply(ctx context.Context, mutations []Mutation) error
}

// Mutation is a single set or delete inside an Apply batch.
type Mutation struct {
	Key    string
	Value  string
	Delete bool
}

func SetMutation(key, value string) Mutation {
	return Mutation{Key: key, Value: value}
}

func DeleteMutation(key string) Mutation {
	return Mutation{Key: key, Delete: true}
}

// Lister is implemented by stores that can enumerate their entries.
type Lister interface {
	List(ctx context.Context) ([]Entry, error)
}

type Entry struct {
	Key   string
	Value string
}
