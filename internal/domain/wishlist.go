package domain

import "slices"

type Wishlist struct {
	Products []Product
}

func (w Wishlist) Contains(productID string) bool {
	return slices.ContainsFunc(w.Products, func(p Product) bool {
		return p.ID == productID
	})
}

// WithAdded is idempotent: a product already present leaves the wishlist unchanged.
func (w Wishlist) WithAdded(product Product) Wishlist {
	out := w.Clone()
	if !out.Contains(product.ID) {
		out.Products = append(out.Products, product)
	}
	return out
}

func (w Wishlist) Without(productID string) Wishlist {
	out := w.Clone()
	out.Products = slices.DeleteFunc(out.Products, func(p Product) bool {
		return p.ID == productID
	})
	return out
}

// Normalize drops duplicate entries, keeping the first occurrence.
func (w Wishlist) Normalize() Wishlist {
	var out Wishlist
	for _, p := range w.Products {
		out = out.WithAdded(p)
	}
	return out
}

func (w Wishlist) Clone() Wishlist {
	return Wishlist{Products: slices.Clone(w.Products)}
}
