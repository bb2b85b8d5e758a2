package domain

import "github.com/shopspring/decimal"

type BudgetLevel int

const (
	BudgetNominal BudgetLevel = iota
	BudgetWarning
	BudgetCritical
)

func (l BudgetLevel) String() string {
	switch l {
	case BudgetNominal:
		return "nominal"
	case BudgetWarning:
		return "warning"
	case BudgetCritical:
		return "critical"
	default:
		return "unknown"
	}
}

var (
	warningThreshold  = decimal.NewFromInt(70)
	criticalThreshold = decimal.NewFromInt(90)
	hundred           = decimal.NewFromInt(100)
)

// BudgetStatus is a presentation band over spent/budget. It is never enforced.
type BudgetStatus struct {
	Percentage decimal.Decimal
	Level      BudgetLevel
	Remaining  decimal.Decimal
}

func NewBudgetStatus(budget, spent decimal.Decimal) BudgetStatus {
	status := BudgetStatus{Remaining: budget.Sub(spent)}

	switch {
	case budget.IsPositive():
		status.Percentage = spent.Div(budget).Mul(hundred)
	case spent.IsPositive():
		// nothing left of a zero budget
		status.Percentage = hundred
	default:
		status.Percentage = decimal.Zero
	}

	switch {
	case status.Percentage.GreaterThanOrEqual(criticalThreshold):
		status.Level = BudgetCritical
	case status.Percentage.GreaterThanOrEqual(warningThreshold):
		status.Level = BudgetWarning
	default:
		status.Level = BudgetNominal
	}

	return status
}
