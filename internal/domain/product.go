package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. The state store never mutates products, it only
// references them by ID.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Image       string
	Category    string
	Rating      float64
	Description string
}
