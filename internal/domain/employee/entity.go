package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentModality string

const (
	// ModalityDaily pays per worked or partial day at the default rate.
	ModalityDaily PaymentModality = "DIARIA"
	// ModalityCLT is salaried with a fixed shift; DefaultValue is the monthly reference.
	ModalityCLT PaymentModality = "CLT"
)

func (m PaymentModality) Valid() bool {
	return m == ModalityDaily || m == ModalityCLT
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Employee struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	Name            string          `json:"name"`
	Role            string          `json:"role"`
	PaymentModality PaymentModality `json:"payment_modality"`
	DefaultValue    decimal.Decimal `json:"default_value"`
	Status          Status          `json:"status"`
	ShiftStart      *string         `json:"shift_start,omitempty"`
	BreakStart      *string         `json:"break_start,omitempty"`
	BreakEnd        *string         `json:"break_end,omitempty"`
	ShiftEnd        *string         `json:"shift_end,omitempty"`
	Phone           *string         `json:"phone,omitempty"`
	Document        *string         `json:"document,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

func (e Employee) IsCLT() bool {
	return e.PaymentModality == ModalityCLT
}
