package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutQuote is what the caller sees before committing a checkout.
type CheckoutQuote struct {
	Total      decimal.Decimal
	Spent      decimal.Decimal
	Budget     decimal.Decimal
	OverBudget bool
	Overage    decimal.Decimal
}

func NewCheckoutQuote(account Account, cart Cart) CheckoutQuote {
	total := cart.TotalPrice()
	after := account.Spent.Add(total)

	quote := CheckoutQuote{
		Total:   total,
		Spent:   account.Spent,
		Budget:  account.Budget,
		Overage: decimal.Zero,
	}
	if after.GreaterThan(account.Budget) {
		quote.OverBudget = true
		quote.Overage = after.Sub(account.Budget)
	}
	return quote
}

// CheckoutRecord is the transaction committed by a checkout: the spend delta and
// the cart clear are written together.
type CheckoutRecord struct {
	ID          string
	AccountID   string
	SpendDelta  decimal.Decimal
	ClearCart   bool
	Items       []CartLine
	CommittedAt time.Time
}
