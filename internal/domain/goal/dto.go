package goal

import (
	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type UpsertGoalRequest struct {
	Month      string          `json:"month" validate:"required,yearmonth"`
	Production float64         `json:"production" validate:"gte=0"`
	Revenue    decimal.Decimal `json:"revenue"`
}

func (r *UpsertGoalRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}
	if r.Revenue.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "revenue", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
