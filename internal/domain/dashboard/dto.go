package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

const (
	DefaultRangeMonths = 6
	MaxRangeMonths     = 24
)

// MonthBucket is one calendar month of a series.
type MonthBucket struct {
	Key        string `json:"key"`
	ShortLabel string `json:"short_label"`
	LongLabel  string `json:"long_label"`
}

type MonthMetrics struct {
	Bucket            MonthBucket      `json:"bucket"`
	Production        float64          `json:"production"`
	Revenue           decimal.Decimal  `json:"revenue"`
	CashIn            decimal.Decimal  `json:"cash_in"`
	CashOut           decimal.Decimal  `json:"cash_out"`
	Balance           decimal.Decimal  `json:"balance"`
	InventoryExits    float64          `json:"inventory_exits"`
	Goal              goal.MonthlyGoal `json:"goal"`
	ProdPercentage    float64          `json:"prod_percentage"`
	RevenuePercentage float64          `json:"revenue_percentage"`
}

// Summary is the headline KPI set. It is also the context handed to the
// assistant, so field names are part of that contract.
type Summary struct {
	TotalAreas           int             `json:"total_areas"`
	CumulativeProduction float64         `json:"cumulative_production"`
	CumulativeRevenue    decimal.Decimal `json:"cumulative_revenue"`
	CashBalance          decimal.Decimal `json:"cash_balance"`
	LowStockItems        []string        `json:"low_stock_items"`
	CurrentMonthGoal     float64         `json:"current_month_goal"`
	ActiveEmployees      int             `json:"active_employees"`
}

type OverviewRequest struct {
	// End is the last month of the series, "YYYY-MM". Defaults to the
	// current month.
	End    string `json:"end" validate:"omitempty,yearmonth"`
	Months int    `json:"months" validate:"omitempty,min=1"`
}

func (r *OverviewRequest) Validate() error {
	return validator.Struct(r)
}

// Warning reports a section that could not be computed. The other sections
// of the overview are still returned.
type Warning struct {
	Section string `json:"section"`
	Message string `json:"message"`
}

type Overview struct {
	Series           []MonthMetrics     `json:"series"`
	Summary          *Summary           `json:"summary"`
	ProductionByType map[string]float64 `json:"production_by_type"`
	Warnings         []Warning          `json:"warnings,omitempty"`
}
