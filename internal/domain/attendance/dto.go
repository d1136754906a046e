package attendance

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type ListFilter struct {
	EmployeeID string
	From       string
	To         string
	// PendingOnly drops records already marked pago.
	PendingOnly bool
}

type ToggleRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required,isodate"`
}

func (r *ToggleRequest) Validate() error {
	return validator.Struct(r)
}

// PointForm is the six-way status selection plus optional shift times.
type PointForm struct {
	Status     VirtualStatus `json:"status"`
	ClockIn    *string       `json:"clock_in,omitempty"`
	BreakStart *string       `json:"break_start,omitempty"`
	BreakEnd   *string       `json:"break_end,omitempty"`
	ClockOut   *string       `json:"clock_out,omitempty"`
	Note       string        `json:"note"`
}

func (f PointForm) Validate() error {
	var errs validator.ValidationErrors
	if !f.Status.Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of: present, partial, absent, atestado, justified, vacation"})
	}
	for field, v := range map[string]*string{
		"clock_in":    f.ClockIn,
		"break_start": f.BreakStart,
		"break_end":   f.BreakEnd,
		"clock_out":   f.ClockOut,
	} {
		if v != nil && *v != "" && !validator.IsValidClock(*v) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be a time in HH:MM format"})
		}
	}
	if HasReservedPrefix(f.Note) {
		errs = append(errs, validator.ValidationError{Field: "note", Message: ErrReservedObservationPrefix.Error()})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SavePointRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	PointForm
}

func (r *SavePointRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if err := r.PointForm.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EditValuesRequest carries raw user input. Numbers are parsed tolerantly by
// the engine, so they stay strings here.
type EditValuesRequest struct {
	ID       string `json:"-"`
	Value    string `json:"value"`
	Discount string `json:"discount_value"`
	Bonus    string `json:"bonus_value"`
	Note     string `json:"note"`
}

func (r *EditValuesRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if HasReservedPrefix(r.Note) {
		errs = append(errs, validator.ValidationError{Field: "note", Message: ErrReservedObservationPrefix.Error()})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListRequest struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if r.From != "" {
		if _, ok := validator.IsValidDate(r.From); !ok {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "must be a date in YYYY-MM-DD format"})
		}
	}
	if r.To != "" {
		if _, ok := validator.IsValidDate(r.To); !ok {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "must be a date in YYYY-MM-DD format"})
		}
	}
	if len(errs) == 0 && r.From != "" && r.To != "" && r.From > r.To {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "must be on or after from"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	Record
	VirtualStatus VirtualStatus   `json:"virtual_status"`
	Shorthand     string          `json:"shorthand"`
	Net           decimal.Decimal `json:"net"`
}

func NewRecordResponse(r Record) RecordResponse {
	v := r.VirtualStatus()
	return RecordResponse{Record: r, VirtualStatus: v, Shorthand: StatusToShorthand(v), Net: r.Net()}
}

type ToggleResponse struct {
	Action string          `json:"action"`
	Record *RecordResponse `json:"record,omitempty"`
}
