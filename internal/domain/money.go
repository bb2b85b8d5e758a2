package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// String renders the amount with its currency symbol, rounded to cents.
func (m Money) String() string {
	p := message.NewPrinter(language.English)
	return p.Sprint(currency.Symbol(m.Currency.Amount(m.Amount.Round(2).InexactFloat64())))
}
