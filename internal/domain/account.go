package domain

import "github.com/shopspring/decimal"

type Account struct {
	ID     string
	Name   string
	Email  string
	Budget decimal.Decimal
	Spent  decimal.Decimal
}

func (a Account) Remaining() decimal.Decimal {
	return a.Budget.Sub(a.Spent)
}

func (a Account) BudgetStatus() BudgetStatus {
	return NewBudgetStatus(a.Budget, a.Spent)
}
