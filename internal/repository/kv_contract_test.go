package repository_test

import (
	"testing"

	"github.com/nikolayk812/storefront-state/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runKVContract exercises the behaviour every KVStore backend shares.
func runKVContract(t *testing.T, newKV func(t *testing.T) port.KVStore) {
	t.Run("get missing key: not found", func(t *testing.T) {
		kv := newKV(t)

		_, err := kv.Get(t.Context(), randomKey())
		require.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("set then get: ok", func(t *testing.T) {
		kv := newKV(t)
		ctx := t.Context()
		key, value := randomKey(), randomValue()

		require.NoError(t, kv.Set(ctx, key, value))

		got, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("set overwrites: ok", func(t *testing.T) {
		kv := newKV(t)
		ctx := t.Context()
		key, second := randomKey(), randomValue()

		require.NoError(t, kv.Set(ctx, key, randomValue()))
		require.NoError(t, kv.Set(ctx, key, second))

		got, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, second, got)
	})

	t.Run("delete: ok", func(t *testing.T) {
		kv := newKV(t)
		ctx := t.Context()
		key := randomKey()
		require.NoError(t, kv.Set(ctx, key, randomValue()))

		require.NoError(t, kv.Delete(ctx, key))

		_, err := kv.Get(ctx, key)
		require.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("delete missing key: ok", func(t *testing.T) {
		kv := newKV(t)

		require.NoError(t, kv.Delete(t.Context(), randomKey()))
	})

	t.Run("empty key: error", func(t *testing.T) {
		kv := newKV(t)
		ctx := t.Context()

		_, err := kv.Get(ctx, "")
		require.EqualError(t, err, "key is empty")
		require.Error(t, kv.Set(ctx, "", "x"))
		require.Error(t, kv.Delete(ctx, ""))
	})

	t.Run("apply batch: ok", func(t *testing.T) {
		kv := newKV(t)
		ctx := t.Context()
		kept, dropped, added := randomKey(), randomKey(), randomKey()
		require.NoError(t, kv.Set(ctx, kept, "old"))
		require.NoError(t, kv.Set(ctx, dropped, "old"))

		err := kv.Apply(ctx, []port.Mutation{
			port.SetMutation(kept, "new"),
			port.DeleteMutation(dropped),
			port.SetMutation(added, "[]"),
		})
		require.NoError(t, err)

		got, err := kv.Get(ctx, kept)
		require.NoError(t, err)
		assert.Equal(t, "new", got)

		_, err = kv.Get(ctx, dropped)
		require.ErrorIs(t, err, port.ErrNotFound)

		got, err = kv.Get(ctx, added)
		require.NoError(t, err)
		assert.Equal(t, "[]", got)
	})

	t.Run("apply with empty key: nothing written", func(t *testing.T) {
		kv := newKV(t)
		ctx := t.Context()
		key := randomKey()

		err := kv.Apply(ctx, []port.Mutation{
			port.SetMutation(key, "x"),
			port.SetMutation("", "y"),
		})
		require.EqualError(t, err, "mutation[1]: key is empty")

		_, err = kv.Get(ctx, key)
		require.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("list: ok", func(t *testing.T) {
		kv := newKV(t)
		ctx := t.Context()
		lister, ok := kv.(port.Lister)
		require.True(t, ok)

		before, err := lister.List(ctx)
		require.NoError(t, err)

		key := randomKey()
		require.NoError(t, kv.Set(ctx, key, "v"))

		after, err := lister.List(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+1)
		assert.Contains(t, after, port.Entry{Key: key, Value: "v"})
	})
}
