package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/domain/dashboard"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/locale"
)

const yearMonth = "2006-01"

// BuildMonthlySeries returns rangeMonths consecutive months ending at
// endPeriod, oldest first.
func BuildMonthlySeries(endPeriod string, rangeMonths int) ([]dashboard.MonthBucket, error) {
	end, err := time.Parse(yearMonth, endPeriod)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", dashboard.ErrInvalidPeriod, endPeriod)
	}
	if rangeMonths < 1 || rangeMonths > dashboard.MaxRangeMonths {
		return nil, dashboard.ErrInvalidRange
	}

	buckets := make([]dashboard.MonthBucket, rangeMonths)
	for i := 0; i < rangeMonths; i++ {
		// AddDate on the first of the month never skips a month.
		m := end.AddDate(0, i-rangeMonths+1, 0)
		buckets[i] = dashboard.MonthBucket{
			Key:        m.Format(yearMonth),
			ShortLabel: locale.ShortMonth(m.Month()) + "/" + m.Format("06"),
			LongLabel:  locale.MonthTitle(m.Format(yearMonth)),
		}
	}
	return buckets, nil
}

// inMonth matches on the "YYYY-MM" prefix of an ISO date string.
func inMonth(date, key string) bool {
	return strings.HasPrefix(date, key)
}

// AggregateMonth computes the metrics of one bucket. Buckets are independent
// of each other.
func AggregateMonth(
	bucket dashboard.MonthBucket,
	areas []production.Area,
	cashIn, cashOut []finance.Entry,
	exits []inventory.Movement,
	goals []goal.MonthlyGoal,
) dashboard.MonthMetrics {
	m := dashboard.MonthMetrics{
		Bucket:  bucket,
		Revenue: decimal.Zero,
		CashIn:  decimal.Zero,
		CashOut: decimal.Zero,
		Goal:    goal.Find(goals, bucket.Key),
	}

	var production decimal.Decimal
	for _, a := range areas {
		for _, s := range a.Services {
			if !inMonth(s.Date, bucket.Key) {
				continue
			}
			production = production.Add(decimal.NewFromFloat(s.Quantity))
			m.Revenue = m.Revenue.Add(s.TotalValue)
		}
	}
	m.Production = production.InexactFloat64()

	for _, e := range cashIn {
		if inMonth(e.Date, bucket.Key) {
			m.CashIn = m.CashIn.Add(e.Value)
		}
	}
	for _, e := range cashOut {
		if inMonth(e.Date, bucket.Key) {
			m.CashOut = m.CashOut.Add(e.Value)
		}
	}
	m.Balance = m.CashIn.Sub(m.CashOut)

	var exitQty decimal.Decimal
	for _, x := range exits {
		if x.Type == inventory.MovementOut && inMonth(x.Date, bucket.Key) {
			exitQty = exitQty.Add(decimal.NewFromFloat(x.Quantity))
		}
	}
	m.InventoryExits = exitQty.InexactFloat64()

	m.ProdPercentage = GoalPercentage(m.Production, m.Goal.Production)
	m.RevenuePercentage = GoalPercentage(m.Revenue.InexactFloat64(), m.Goal.Revenue.InexactFloat64())
	return m
}

// GoalPercentage is actual/goal*100, or 0 when no goal is set.
func GoalPercentage(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return actual / target * 100
}

// ProductionTotalsByServiceType sums quantities per service type.
func ProductionTotalsByServiceType(areas []production.Area) map[string]float64 {
	sums := make(map[string]decimal.Decimal)
	for _, a := range areas {
		for _, s := range a.Services {
			sums[s.ServiceType] = sums[s.ServiceType].Add(decimal.NewFromFloat(s.Quantity))
		}
	}
	out := make(map[string]float64, len(sums))
	for k, v := range sums {
		out[k] = v.InexactFloat64()
	}
	return out
}

// Summarize computes the headline KPIs of snap as of now.
func Summarize(snap snapshot.Snapshot, now time.Time) dashboard.Summary {
	sum := dashboard.Summary{
		TotalAreas:        len(snap.Areas),
		CumulativeRevenue: decimal.Zero,
		CashBalance:       decimal.Zero,
		LowStockItems:     []string{},
		CurrentMonthGoal:  goal.Find(snap.Goals, now.Format(yearMonth)).Production,
		ActiveEmployees:   len(snap.ActiveEmployees()),
	}

	var production decimal.Decimal
	for _, a := range snap.Areas {
		for _, s := range a.Services {
			production = production.Add(decimal.NewFromFloat(s.Quantity))
			sum.CumulativeRevenue = sum.CumulativeRevenue.Add(s.TotalValue)
		}
	}
	sum.CumulativeProduction = production.InexactFloat64()

	for _, e := range snap.CashIn {
		sum.CashBalance = sum.CashBalance.Add(e.Value)
	}
	for _, e := range snap.CashOut {
		sum.CashBalance = sum.CashBalance.Sub(e.Value)
	}

	for _, item := range snap.Items {
		if item.IsCritical() {
			sum.LowStockItems = append(sum.LowStockItems, item.Name)
		}
	}
	sort.Strings(sum.LowStockItems)
	return sum
}

// Series aggregates every bucket over snap.
func Series(snap snapshot.Snapshot, buckets []dashboard.MonthBucket) []dashboard.MonthMetrics {
	exits := snap.Exits()
	out := make([]dashboard.MonthMetrics, len(buckets))
	for i, b := range buckets {
		out[i] = AggregateMonth(b, snap.Areas, snap.CashIn, snap.CashOut, exits, snap.Goals)
	}
	return out
}
