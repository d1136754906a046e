package attendance

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/locale"
)

type ToggleKind string

const (
	ToggleCreate ToggleKind = "create"
	ToggleUpdate ToggleKind = "update"
	ToggleDelete ToggleKind = "delete"
)

// ToggleAction is the next step of the quick-toggle cycle. Record is the
// state after the step; for ToggleUpdate only the fields in Patch are
// written.
type ToggleAction struct {
	Kind   ToggleKind
	Record attendance.Record
	Patch  attendance.Patch
}

var two = decimal.NewFromInt(2)

// NextToggle advances a DIARIA employee's day through
// none -> present -> partial -> absent -> none. Leave days step to none like
// a recorded absence.
func NextToggle(emp employee.Employee, date string, existing *attendance.Record) (ToggleAction, error) {
	if !emp.IsActive() {
		return ToggleAction{}, attendance.ErrEmployeeInactive
	}
	if emp.IsCLT() {
		return ToggleAction{}, attendance.ErrToggleRequiresDailyModality
	}

	if existing == nil {
		return ToggleAction{
			Kind: ToggleCreate,
			Record: attendance.Record{
				CompanyID:     emp.CompanyID,
				EmployeeID:    emp.ID,
				Date:          date,
				Status:        attendance.StatusPresent,
				Value:         emp.DefaultValue,
				PaymentStatus: attendance.PaymentPending,
			},
		}, nil
	}
	if existing.IsPaid() {
		return ToggleAction{}, attendance.ErrRecordAlreadyPaid
	}

	var (
		status attendance.StoredStatus
		value  decimal.Decimal
		patch  attendance.Patch
	)
	switch existing.VirtualStatus() {
	case attendance.VirtualPresent:
		status = attendance.StatusPartial
		value = emp.DefaultValue.Div(two).Round(2)
	case attendance.VirtualPartial:
		status = attendance.StatusAbsent
		value = decimal.Zero
		patch.Clock = &attendance.Clock{}
	default:
		return ToggleAction{Kind: ToggleDelete, Record: *existing}, nil
	}

	patch.Status = &status
	patch.Value = &value
	return ToggleAction{Kind: ToggleUpdate, Record: patch.Apply(*existing), Patch: patch}, nil
}

// BuildPointRecord turns the six-way form into the record to store. It keeps
// the ID, payment status, bonus and discount of existing, and defaults the
// payment status to pendente for new days.
func BuildPointRecord(emp employee.Employee, date string, form attendance.PointForm, existing *attendance.Record) (attendance.Record, error) {
	if !emp.IsActive() {
		return attendance.Record{}, attendance.ErrEmployeeInactive
	}
	if !form.Status.Valid() {
		return attendance.Record{}, attendance.ErrInvalidVirtualStatus
	}
	if _, err := attendance.EncodeObservation(form.Status, form.Note); err != nil {
		return attendance.Record{}, err
	}

	rec := attendance.Record{
		CompanyID:     emp.CompanyID,
		EmployeeID:    emp.ID,
		Date:          date,
		PaymentStatus: attendance.PaymentPending,
	}
	if existing != nil {
		rec = *existing
	}

	rec.Status = form.Status.Stored()
	rec.LeaveKind = form.Status.LeaveKind()
	rec.Note = strings.TrimSpace(form.Note)

	rec.Value = decimal.Zero
	if form.Status.CountsAsPaid() {
		rec.Value = emp.DefaultValue
	}

	rec.ClockIn, rec.BreakStart, rec.BreakEnd, rec.ClockOut = nil, nil, nil, nil
	if form.Status.Worked() {
		rec.ClockIn = clock(form.ClockIn)
		rec.BreakStart = clock(form.BreakStart)
		rec.BreakEnd = clock(form.BreakEnd)
		rec.ClockOut = clock(form.ClockOut)
	}
	return rec, nil
}

// PointPatch is the partial update that turns existing into next.
func PointPatch(next attendance.Record) attendance.Patch {
	c := next.Clock()
	return attendance.Patch{
		Status:      &next.Status,
		Value:       &next.Value,
		Observation: &attendance.Observation{Leave: next.LeaveKind, Note: next.Note},
		Clock:       &c,
	}
}

func clock(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

// EditRecordValues applies user-typed amounts. Each field is parsed on its
// own: an unreadable or negative value keeps the prior value, an unreadable
// discount or bonus becomes zero. Bad numbers never abort the edit.
func EditRecordValues(rec attendance.Record, newValue, newDiscount, newBonus, newNote string) (attendance.Record, error) {
	if rec.IsPaid() {
		return attendance.Record{}, attendance.ErrRecordAlreadyPaid
	}
	if attendance.HasReservedPrefix(newNote) {
		return attendance.Record{}, attendance.ErrReservedObservationPrefix
	}

	if v, ok := amount(newValue); ok {
		rec.Value = v
	}
	rec.DiscountValue = decimal.Zero
	if v, ok := amount(newDiscount); ok {
		rec.DiscountValue = v
	}
	rec.BonusValue = decimal.Zero
	if v, ok := amount(newBonus); ok {
		rec.BonusValue = v
	}
	rec.Note = strings.TrimSpace(newNote)
	return rec, nil
}

// ValuesPatch is the partial update written by EditRecordValues.
func ValuesPatch(rec attendance.Record) attendance.Patch {
	return attendance.Patch{
		Value:         &rec.Value,
		DiscountValue: &rec.DiscountValue,
		BonusValue:    &rec.BonusValue,
		Observation:   &attendance.Observation{Leave: rec.LeaveKind, Note: rec.Note},
	}
}

func amount(s string) (decimal.Decimal, bool) {
	d, ok := locale.ParseAmount(s)
	if !ok || d.IsNegative() {
		return decimal.Zero, false
	}
	return d.Round(2), true
}
