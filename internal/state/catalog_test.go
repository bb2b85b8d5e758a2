package state_test

import (
	"testing"

	"github.com/nikolayk812/storefront-state/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_AddToCart(t *testing.T) {
	tests := []struct {
		name  string
		calls int
	}{
		{name: "single add", calls: 1},
		{name: "repeated adds accumulate", calls: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store := newStore(t, repository.NewMemory())
			product := randomProduct()

			for i := 0; i < tt.calls; i++ {
				require.NoError(t, store.Catalog.AddToCart(ctx, product))
			}

			cart := store.Catalog.Cart()
			require.Len(t, cart.Lines, 1)
			assert.Equal(t, tt.calls, cart.Lines[0].Quantity)
			assert.Equal(t, tt.calls, store.Catalog.TotalItems())
		})
	}
}

func TestCatalog_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		wantLines int
	}{
		{name: "positive quantity replaces", quantity: 7, wantLines: 1},
		{name: "zero removes the line", quantity: 0, wantLines: 0},
		{name: "negative removes the line", quantity: -5, wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store := newStore(t, repository.NewMemory())
			product := randomProduct()
			require.NoError(t, store.Catalog.AddToCart(ctx, product))

			require.NoError(t, store.Catalog.UpdateQuantity(ctx, product.ID, tt.quantity))

			cart := store.Catalog.Cart()
			require.Len(t, cart.Lines, tt.wantLines)
			if tt.wantLines == 1 {
				assert.Equal(t, tt.quantity, cart.Lines[0].Quantity)
			}
		})
	}
}

func TestCatalog_UpdateQuantity_MissingProductIsNoop(t *testing.T) {
	ctx := t.Context()
	kv := newFlakyKV()
	store := newStore(t, kv)
	require.NoError(t, store.Catalog.AddToCart(ctx, randomProduct()))
	before := store.Catalog.Cart()
	writes := kv.writeCount()

	require.NoError(t, store.Catalog.UpdateQuantity(ctx, "missing", 3))

	assert.Equal(t, before, store.Catalog.Cart())
	assert.Equal(t, writes, kv.writeCount())
}

func TestCatalog_RemoveFromCart(t *testing.T) {
	ctx := t.Context()
	kv := newFlakyKV()
	store := newStore(t, kv)
	keep, drop := randomProduct(), randomProduct()
	require.NoError(t, store.Catalog.AddToCart(ctx, keep))
	require.NoError(t, store.Catalog.AddToCart(ctx, drop))

	require.NoError(t, store.Catalog.RemoveFromCart(ctx, drop.ID))

	cart := store.Catalog.Cart()
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, keep.ID, cart.Lines[0].Product.ID)

	// missing id: cart unchanged, nothing written
	writes := kv.writeCount()
	require.NoError(t, store.Catalog.RemoveFromCart(ctx, drop.ID))
	assert.Equal(t, cart, store.Catalog.Cart())
	assert.Equal(t, writes, kv.writeCount())
}

func TestCatalog_ClearCart(t *testing.T) {
	ctx := t.Context()
	store := newStore(t, repository.NewMemory())
	require.NoError(t, store.Catalog.AddToCart(ctx, randomProduct()))
	require.NoError(t, store.Catalog.AddToCart(ctx, randomProduct()))

	require.NoError(t, store.Catalog.ClearCart(ctx))

	assert.True(t, store.Catalog.Cart().IsEmpty())
	assert.Equal(t, 0, store.Catalog.TotalItems())
	assert.True(t, store.Catalog.TotalPrice().IsZero())
}

func TestCatalog_TotalPrice(t *testing.T) {
	ctx := t.Context()
	store := newStore(t, repository.NewMemory())
	ten, five := productWithPrice(10), productWithPrice(5)

	require.NoError(t, store.Catalog.AddToCart(ctx, ten))
	require.NoError(t, store.Catalog.UpdateQuantity(ctx, ten.ID, 2))
	require.NoError(t, store.Catalog.AddToCart(ctx, five))
	require.NoError(t, store.Catalog.UpdateQuantity(ctx, five.ID, 3))

	assert.True(t, decimal.NewFromInt(35).Equal(store.Catalog.TotalPrice()), "got %s", store.Catalog.TotalPrice())
	assert.Equal(t, 5, store.Catalog.TotalItems())
}

func TestCatalog_Wishlist(t *testing.T) {
	ctx := t.Context()
	kv := newFlakyKV()
	store := newStore(t, kv)
	product := randomProduct()

	require.NoError(t, store.Catalog.AddToWishlist(ctx, product))
	writes := kv.writeCount()
	require.NoError(t, store.Catalog.AddToWishlist(ctx, product))

	assert.Len(t, store.Catalog.Wishlist().Products, 1)
	assert.True(t, store.Catalog.IsInWishlist(product.ID))
	assert.Equal(t, writes, kv.writeCount(), "second add must not write")

	require.NoError(t, store.Catalog.RemoveFromWishlist(ctx, product.ID))
	assert.False(t, store.Catalog.IsInWishlist(product.ID))

	// removing again is a no-op
	require.NoError(t, store.Catalog.RemoveFromWishlist(ctx, product.ID))
	assert.Empty(t, store.Catalog.Wishlist().Products)
}
