package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/payroll"
)

// ComputeSettlement totals the pending records. Records already pago are
// ignored entirely. The result does not depend on input order.
func ComputeSettlement(records []attendance.Record) payroll.Settlement {
	s := payroll.Settlement{
		TotalBase:      decimal.Zero,
		TotalDiscounts: decimal.Zero,
		TotalBonuses:   decimal.Zero,
		RecordIDs:      []string{},
	}
	for _, r := range records {
		if r.IsPaid() {
			continue
		}
		s.TotalBase = s.TotalBase.Add(r.Value)
		s.TotalDiscounts = s.TotalDiscounts.Add(r.DiscountValue)
		s.TotalBonuses = s.TotalBonuses.Add(r.BonusValue)
		s.RecordIDs = append(s.RecordIDs, r.ID)
	}
	s.TotalToPay = s.TotalBase.Add(s.TotalBonuses).Sub(s.TotalDiscounts)
	return s
}
