package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

type Cart struct {
	Lines []CartLine
}

type CartLine struct {
	Product  Product
	Quantity int
}

// Subtotal is price times quantity for a single line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) Line(productID string) (CartLine, bool) {
	i := c.index(productID)
	if i < 0 {
		return CartLine{}, false
	}
	return c.Lines[i], true
}

// TotalPrice is recomputed from the lines on every call.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c Cart) TotalItems() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// WithAdded returns a copy of the cart with one more unit of product.
func (c Cart) WithAdded(product Product) Cart {
	out := c.Clone()
	if i := out.index(product.ID); i >= 0 {
		out.Lines[i].Quantity++
		return out
	}
	out.Lines = append(out.Lines, CartLine{Product: product, Quantity: 1})
	return out
}

// WithQuantity returns a copy of the cart with the line's quantity replaced.
// A quantity of zero or less removes the line.
func (c Cart) WithQuantity(productID string, quantity int) Cart {
	if quantity <= 0 {
		return c.Without(productID)
	}
	out := c.Clone()
	if i := out.index(productID); i >= 0 {
		out.Lines[i].Quantity = quantity
	}
	return out
}

func (c Cart) Without(productID string) Cart {
	out := c.Clone()
	out.Lines = slices.DeleteFunc(out.Lines, func(l CartLine) bool {
		return l.Product.ID == productID
	})
	return out
}

// Normalize merges duplicate lines and drops lines with a non-positive quantity,
// keeping first-seen order.
func (c Cart) Normalize() Cart {
	var out Cart
	for _, line := range c.Lines {
		if line.Quantity <= 0 {
			continue
		}
		if i := out.index(line.Product.ID); i >= 0 {
			out.Lines[i].Quantity += line.Quantity
			continue
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

func (c Cart) Clone() Cart {
	return Cart{Lines: slices.Clone(c.Lines)}
}

func (c Cart) index(productID string) int {
	return slices.IndexFunc(c.Lines, func(l CartLine) bool {
		return l.Product.ID == productID
	})
}
