package state

import (
	"context"

	"github.com/nikolayk812/storefront-state/internal/domain"
	"github.com/nikolayk812/storefront-state/internal/port"
	"github.com/shopspring/decimal"
)

// Catalog is the catalog selection state: cart lines and wishlist entries.
type Catalog struct {
	s *Store
}

func (c *Catalog) Cart() domain.Cart {
	return c.s.Snapshot().Cart
}

func (c *Catalog) Wishlist() domain.Wishlist {
	return c.s.Snapshot().Wishlist
}

func (c *Catalog) TotalPrice() decimal.Decimal {
	return c.Cart().TotalPrice()
}

func (c *Catalog) TotalItems() int {
	return c.Cart().TotalItems()
}

func (c *Catalog) IsInWishlist(productID string) bool {
	return c.Wishlist().Contains(productID)
}

// AddToCart adds one unit of the product, creating the line if needed.
func (c *Catalog) AddToCart(ctx context.Context, product domain.Product) error {
	c.s.opMu.Lock()
	defer c.s.opMu.Unlock()

	next := c.s.read()
	next.Cart = next.Cart.WithAdded(product)
	return c.writeCart(ctx, "add_to_cart", next)
}

// RemoveFromCart is a no-op when the product has no line.
func (c *Catalog) RemoveFromCart(ctx context.Context, productID string) error {
	c.s.opMu.Lock()
	defer c.s.opMu.Unlock()

	next := c.s.read()
	if _, ok := next.Cart.Line(productID); !ok {
		return nil
	}
	next.Cart = next.Cart.Without(productID)
	return c.writeCart(ctx, "remove_from_cart", next)
}

// UpdateQuantity removes the line when quantity <= 0 and is a no-op when the
// product has no line.
func (c *Catalog) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	c.s.opMu.Lock()
	defer c.s.opMu.Unlock()

	next := c.s.read()
	line, ok := next.Cart.Line(productID)
	if !ok || line.Quantity == quantity {
		return nil
	}
	next.Cart = next.Cart.WithQuantity(productID, quantity)
	return c.writeCart(ctx, "update_quantity", next)
}

func (c *Catalog) ClearCart(ctx context.Context) error {
	c.s.opMu.Lock()
	defer c.s.opMu.Unlock()

	next := c.s.read()
	next.Cart = domain.Cart{}
	return c.writeCart(ctx, "clear_cart", next)
}

// AddToWishlist is idempotent.
func (c *Catalog) AddToWishlist(ctx context.Context, product domain.Product) error {
	c.s.opMu.Lock()
	defer c.s.opMu.Unlock()

	next := c.s.read()
	if next.Wishlist.Contains(product.ID) {
		return nil
	}
	next.Wishlist = next.Wishlist.WithAdded(product)
	return c.writeWishlist(ctx, "add_to_wishlist", next)
}

func (c *Catalog) RemoveFromWishlist(ctx context.Context, productID string) error {
	c.s.opMu.Lock()
	defer c.s.opMu.Unlock()

	next := c.s.read()
	if !next.Wishlist.Contains(productID) {
		return nil
	}
	next.Wishlist = next.Wishlist.Without(productID)
	return c.writeWishlist(ctx, "remove_from_wishlist", next)
}

func (c *Catalog) writeCart(ctx context.Context, op string, next Snapshot) error {
	value, err := encodeCart(next.Cart)
	if err != nil {
		return err
	}
	return c.s.commit(ctx, op, next, []port.Mutation{port.SetMutation(keyCart, value)})
}

func (c *Catalog) writeWishlist(ctx context.Context, op string, next Snapshot) error {
	value, err := encodeWishlist(next.Wishlist)
	if err != nil {
		return err
	}
	return c.s.commit(ctx, op, next, []port.Mutation{port.SetMutation(keyWishlist, value)})
}
