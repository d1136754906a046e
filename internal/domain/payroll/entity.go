package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
)

// Settlement is derived from attendance records; it is never stored.
type Settlement struct {
	TotalBase      decimal.Decimal `json:"total_base"`
	TotalDiscounts decimal.Decimal `json:"total_discounts"`
	TotalBonuses   decimal.Decimal `json:"total_bonuses"`
	TotalToPay     decimal.Decimal `json:"total_to_pay"`
	RecordIDs      []string        `json:"record_ids"`
}

// Preview is what a settle call over the same range would pay right now.
type Preview struct {
	EmployeeID string              `json:"employee_id"`
	From       string              `json:"from"`
	To         string              `json:"to"`
	Records    []attendance.Record `json:"records"`
	Settlement Settlement          `json:"settlement"`
	// Informational is set for CLT employees, whose payroll is not
	// discharged per day.
	Informational bool `json:"informational"`
}

// Result of a successful settlement.
type Result struct {
	CashOut    finance.Entry       `json:"cash_out"`
	Records    []attendance.Record `json:"records"`
	Settlement Settlement          `json:"settlement"`
}
