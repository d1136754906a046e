package employee

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Name            string          `json:"name" validate:"required,max=120"`
	Role            string          `json:"role" validate:"required,max=80"`
	PaymentModality PaymentModality `json:"payment_modality" validate:"required,oneof=DIARIA CLT"`
	DefaultValue    decimal.Decimal `json:"default_value"`
	ShiftStart      *string         `json:"shift_start,omitempty" validate:"omitempty,hhmm"`
	BreakStart      *string         `json:"break_start,omitempty" validate:"omitempty,hhmm"`
	BreakEnd        *string         `json:"break_end,omitempty" validate:"omitempty,hhmm"`
	ShiftEnd        *string         `json:"shift_end,omitempty" validate:"omitempty,hhmm"`
	Phone           *string         `json:"phone,omitempty"`
	Document        *string         `json:"document,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Role = strings.TrimSpace(r.Role)

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}
	if r.DefaultValue.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "default_value", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest is a partial update; nil fields are left untouched.
type UpdateEmployeeRequest struct {
	ID              string           `json:"-"`
	Name            *string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Role            *string          `json:"role,omitempty" validate:"omitempty,max=80"`
	PaymentModality *PaymentModality `json:"payment_modality,omitempty" validate:"omitempty,oneof=DIARIA CLT"`
	DefaultValue    *decimal.Decimal `json:"default_value,omitempty"`
	ShiftStart      *string          `json:"shift_start,omitempty" validate:"omitempty,hhmm"`
	BreakStart      *string          `json:"break_start,omitempty" validate:"omitempty,hhmm"`
	BreakEnd        *string          `json:"break_end,omitempty" validate:"omitempty,hhmm"`
	ShiftEnd        *string          `json:"shift_end,omitempty" validate:"omitempty,hhmm"`
	Phone           *string          `json:"phone,omitempty"`
	Document        *string          `json:"document,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}
	if r.DefaultValue != nil && r.DefaultValue.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "default_value", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsEmpty reports whether the request carries no field to change.
func (r *UpdateEmployeeRequest) IsEmpty() bool {
	return r.Name == nil && r.Role == nil && r.PaymentModality == nil && r.DefaultValue == nil &&
		r.ShiftStart == nil && r.BreakStart == nil && r.BreakEnd == nil && r.ShiftEnd == nil &&
		r.Phone == nil && r.Document == nil
}

// Apply returns e with the supplied fields of r written over it.
func (r UpdateEmployeeRequest) Apply(e Employee) Employee {
	if r.Name != nil {
		e.Name = strings.TrimSpace(*r.Name)
	}
	if r.Role != nil {
		e.Role = strings.TrimSpace(*r.Role)
	}
	if r.PaymentModality != nil {
		e.PaymentModality = *r.PaymentModality
	}
	if r.DefaultValue != nil {
		e.DefaultValue = *r.DefaultValue
	}
	if r.ShiftStart != nil {
		e.ShiftStart = r.ShiftStart
	}
	if r.BreakStart != nil {
		e.BreakStart = r.BreakStart
	}
	if r.BreakEnd != nil {
		e.BreakEnd = r.BreakEnd
	}
	if r.ShiftEnd != nil {
		e.ShiftEnd = r.ShiftEnd
	}
	if r.Phone != nil {
		e.Phone = r.Phone
	}
	if r.Document != nil {
		e.Document = r.Document
	}
	return e
}
