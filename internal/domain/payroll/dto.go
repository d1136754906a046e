package payroll

import (
	"strings"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type PreviewRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	From       string `json:"from" validate:"required,isodate"`
	To         string `json:"to" validate:"required,isodate"`
}

func (r *PreviewRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.From > r.To {
		return validator.ValidationErrors{{Field: "to", Message: "must be on or after from"}}
	}
	return nil
}

// SettleRequest settles exactly RecordIDs when given, otherwise every pending
// record of the employee in [From, To].
type SettleRequest struct {
	EmployeeID string   `json:"employee_id" validate:"required"`
	From       string   `json:"from" validate:"required,isodate"`
	To         string   `json:"to" validate:"required,isodate"`
	RecordIDs  []string `json:"record_ids,omitempty"`
	Reference  string   `json:"reference" validate:"max=200"`
	Category   string   `json:"category" validate:"max=80"`
	// PaymentDate defaults to today.
	PaymentDate string `json:"payment_date" validate:"omitempty,isodate"`
}

func (r *SettleRequest) Validate() error {
	r.Reference = strings.TrimSpace(r.Reference)
	r.Category = strings.TrimSpace(r.Category)
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.From > r.To {
		return validator.ValidationErrors{{Field: "to", Message: "must be on or after from"}}
	}
	return nil
}
