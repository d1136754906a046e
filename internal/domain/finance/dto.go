package finance

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type CreateEntryRequest struct {
	Direction   Direction       `json:"direction" validate:"required,oneof=in out"`
	Date        string          `json:"date" validate:"required,isodate"`
	Value       decimal.Decimal `json:"value"`
	Category    string          `json:"category" validate:"required,max=80"`
	Reference   string          `json:"reference" validate:"max=200"`
	Description string          `json:"description" validate:"max=500"`
}

func (r *CreateEntryRequest) Validate() error {
	r.Category = strings.TrimSpace(r.Category)
	r.Reference = strings.TrimSpace(r.Reference)
	r.Description = strings.TrimSpace(r.Description)

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}
	if !r.Value.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "value", Message: "must be greater than 0"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListEntriesRequest struct {
	Direction Direction
	Criteria  filter.Criteria
}

type ListEntriesResponse struct {
	Entries []Entry         `json:"entries"`
	Total   decimal.Decimal `json:"total"`
}

// EntryFields wires ledger entries into the filter composer: search matches
// description or reference.
var EntryFields = filter.Fields[Entry]{
	Text:     func(e Entry) string { return e.Description + " " + e.Reference },
	Category: func(e Entry) string { return e.Category },
	Date:     func(e Entry) string { return e.Date },
}
