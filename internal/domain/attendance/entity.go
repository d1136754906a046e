package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoredStatus is the coarse status persisted on the record.
type StoredStatus string

const (
	StatusPresent StoredStatus = "present"
	StatusPartial StoredStatus = "partial"
	StatusAbsent  StoredStatus = "absent"
)

// VirtualStatus is what screens, exports and payroll reason about. Leave
// statuses are stored as absent plus a LeaveKind.
type VirtualStatus string

const (
	VirtualPresent            VirtualStatus = "present"
	VirtualPartial            VirtualStatus = "partial"
	VirtualAbsent             VirtualStatus = "absent"
	VirtualMedicalCertificate VirtualStatus = "atestado"
	VirtualJustified          VirtualStatus = "justified"
	VirtualVacation           VirtualStatus = "vacation"
)

func (v VirtualStatus) Valid() bool {
	switch v {
	case VirtualPresent, VirtualPartial, VirtualAbsent, VirtualMedicalCertificate, VirtualJustified, VirtualVacation:
		return true
	}
	return false
}

// CountsAsPaid reports whether the day earns the employee's default value.
func (v VirtualStatus) CountsAsPaid() bool {
	switch v {
	case VirtualPresent, VirtualPartial, VirtualMedicalCertificate, VirtualJustified, VirtualVacation:
		return true
	}
	return false
}

// Worked reports whether clock times are meaningful for the day.
func (v VirtualStatus) Worked() bool {
	return v == VirtualPresent || v == VirtualPartial
}

func (v VirtualStatus) Stored() StoredStatus {
	switch v {
	case VirtualPresent:
		return StatusPresent
	case VirtualPartial:
		return StatusPartial
	}
	return StatusAbsent
}

func (v VirtualStatus) LeaveKind() LeaveKind {
	switch v {
	case VirtualMedicalCertificate:
		return LeaveMedicalCertificate
	case VirtualJustified:
		return LeaveJustifiedAbsence
	case VirtualVacation:
		return LeaveVacation
	}
	return LeaveNone
}

// LeaveKind qualifies an absence.
type LeaveKind string

const (
	LeaveNone               LeaveKind = ""
	LeaveMedicalCertificate LeaveKind = "medical_certificate"
	LeaveJustifiedAbsence   LeaveKind = "justified_absence"
	LeaveVacation           LeaveKind = "vacation"
)

// VirtualStatus is the status of an absent day with this leave kind.
func (k LeaveKind) VirtualStatus() VirtualStatus {
	switch k {
	case LeaveMedicalCertificate:
		return VirtualMedicalCertificate
	case LeaveJustifiedAbsence:
		return VirtualJustified
	case LeaveVacation:
		return VirtualVacation
	}
	return VirtualAbsent
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pendente"
	PaymentPaid    PaymentStatus = "pago"
)

// Record is one attendance row per employee and calendar date.
type Record struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	EmployeeID    string          `json:"employee_id"`
	Date          string          `json:"date"`
	Status        StoredStatus    `json:"status"`
	Value         decimal.Decimal `json:"value"`
	BonusValue    decimal.Decimal `json:"bonus_value"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	LeaveKind     LeaveKind       `json:"leave_kind,omitempty"`
	Note          string          `json:"note,omitempty"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	ClockIn       *string         `json:"clock_in,omitempty"`
	BreakStart    *string         `json:"break_start,omitempty"`
	BreakEnd      *string         `json:"break_end,omitempty"`
	ClockOut      *string         `json:"clock_out,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// VirtualStatus derives the presented status. LeaveKind only matters for
// absent days.
func (r Record) VirtualStatus() VirtualStatus {
	if r.Status != StatusAbsent {
		return VirtualStatus(r.Status)
	}
	return r.LeaveKind.VirtualStatus()
}

// Net is value + bonus - discount.
func (r Record) Net() decimal.Decimal {
	return r.Value.Add(r.BonusValue).Sub(r.DiscountValue)
}

func (r Record) IsPaid() bool {
	return r.PaymentStatus == PaymentPaid
}

// Clock groups the four optional shift times.
type Clock struct {
	ClockIn    *string `json:"clock_in,omitempty"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
	ClockOut   *string `json:"clock_out,omitempty"`
}

func (r Record) Clock() Clock {
	return Clock{ClockIn: r.ClockIn, BreakStart: r.BreakStart, BreakEnd: r.BreakEnd, ClockOut: r.ClockOut}
}

// Patch is a partial update. Nil fields are not written. Clock, when set,
// replaces all four times (nil inner values clear them). Observation, when
// set, replaces both the leave kind and the note.
type Patch struct {
	Status        *StoredStatus
	Value         *decimal.Decimal
	BonusValue    *decimal.Decimal
	DiscountValue *decimal.Decimal
	Observation   *Observation
	PaymentStatus *PaymentStatus
	Clock         *Clock
}

type Observation struct {
	Leave LeaveKind
	Note  string
}

// Apply returns r with p written over it.
func (p Patch) Apply(r Record) Record {
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Value != nil {
		r.Value = *p.Value
	}
	if p.BonusValue != nil {
		r.BonusValue = *p.BonusValue
	}
	if p.DiscountValue != nil {
		r.DiscountValue = *p.DiscountValue
	}
	if p.Observation != nil {
		r.LeaveKind = p.Observation.Leave
		r.Note = p.Observation.Note
	}
	if p.PaymentStatus != nil {
		r.PaymentStatus = *p.PaymentStatus
	}
	if p.Clock != nil {
		r.ClockIn = p.Clock.ClockIn
		r.BreakStart = p.Clock.BreakStart
		r.BreakEnd = p.Clock.BreakEnd
		r.ClockOut = p.Clock.ClockOut
	}
	return r
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.Value == nil && p.BonusValue == nil && p.DiscountValue == nil &&
		p.Observation == nil && p.PaymentStatus == nil && p.Clock == nil
}
