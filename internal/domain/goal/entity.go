package goal

import "github.com/shopspring/decimal"

// MonthlyGoal is the comparison target for one "YYYY-MM" month. A month
// without a goal compares against zero.
type MonthlyGoal struct {
	CompanyID  string          `json:"company_id"`
	Month      string          `json:"month"`
	Production float64         `json:"production"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// Find returns the goal for month, or a zero goal.
func Find(goals []MonthlyGoal, month string) MonthlyGoal {
	for _, g := range goals {
		if g.Month == month {
			return g
		}
	}
	return MonthlyGoal{Month: month}
}
