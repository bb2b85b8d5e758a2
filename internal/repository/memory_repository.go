package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nikolayk812/storefront-state/internal/port"
)

type memoryRepository struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory returns a KVStore that lives only as long as the process.
func NewMemory() port.KVStore {
	return &memoryRepository{entries: make(map[string]string)}
}

func (r *memoryRepository) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.entries[key]
	if !ok {
		return "", port.ErrNotFound
	}
	return value, nil
}

func (r *memoryRepository) Set(_ context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = value
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

func (r *memoryRepository) Apply(_ context.Context, mutations []port.Mutation) error {
	if err := validateMutations(mutations); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	applyMutations(r.entries, mutations)
	return nil
}

func (r *memoryRepository) List(_ context.Context) ([]port.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedEntries(r.entries), nil
}

func applyMutations(entries map[string]string, mutations []port.Mutation) {
	for _, m := range mutations {
		if m.Delete {
			delete(entries, m.Key)
			continue
		}
		entries[m.Key] = m.Value
	}
}

func sortedEntries(entries map[string]string) []port.Entry {
	out := make([]port.Entry, 0, len(entries))
	for k, v := range entries {
		out = append(out, port.Entry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
