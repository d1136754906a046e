package production

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type CreateAreaRequest struct {
	Name           string  `json:"name" validate:"required,max=120"`
	Neighborhood   string  `json:"neighborhood" validate:"max=120"`
	ResponsibleID  *string `json:"responsible_id,omitempty"`
	StartDate      string  `json:"start_date" validate:"required,isodate"`
	StartReference string  `json:"start_reference" validate:"max=200"`
	Notes          string  `json:"notes" validate:"max=1000"`
}

func (r *CreateAreaRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Neighborhood = strings.TrimSpace(r.Neighborhood)
	return validator.Struct(r)
}

// UpdateAreaRequest is partial; status changes go through Finish.
type UpdateAreaRequest struct {
	ID             string  `json:"-"`
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Neighborhood   *string `json:"neighborhood,omitempty" validate:"omitempty,max=120"`
	ResponsibleID  *string `json:"responsible_id,omitempty"`
	StartDate      *string `json:"start_date,omitempty" validate:"omitempty,isodate"`
	StartReference *string `json:"start_reference,omitempty" validate:"omitempty,max=200"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (r *UpdateAreaRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return validator.Struct(r)
}

func (r UpdateAreaRequest) Apply(a Area) Area {
	if r.Name != nil {
		a.Name = strings.TrimSpace(*r.Name)
	}
	if r.Neighborhood != nil {
		a.Neighborhood = strings.TrimSpace(*r.Neighborhood)
	}
	if r.ResponsibleID != nil {
		a.ResponsibleID = r.ResponsibleID
	}
	if r.StartDate != nil {
		a.StartDate = *r.StartDate
	}
	if r.StartReference != nil {
		a.StartReference = *r.StartReference
	}
	if r.Notes != nil {
		a.Notes = *r.Notes
	}
	return a
}

type FinishAreaRequest struct {
	ID           string `json:"-"`
	EndDate      string `json:"end_date" validate:"required,isodate"`
	EndReference string `json:"end_reference" validate:"max=200"`
}

func (r *FinishAreaRequest) Validate() error {
	return validator.Struct(r)
}

type AddServiceRequest struct {
	AreaID      string  `json:"-"`
	ServiceType string  `json:"service_type" validate:"required"`
	Date        string  `json:"date" validate:"required,isodate"`
	Quantity    float64 `json:"quantity"`
}

func (r *AddServiceRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}
	if r.Quantity <= 0 {
		errs = append(errs, validator.ValidationError{Field: "quantity", Message: ErrInvalidQuantity.Error()})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Report struct {
	Areas         []Area             `json:"areas"`
	ByServiceType map[string]float64 `json:"by_service_type"`
	TotalQuantity float64            `json:"total_quantity"`
	TotalValue    decimal.Decimal    `json:"total_value"`
}

// AreaFields: search covers name and neighborhood, the category is the
// status, and the date is the start date.
var AreaFields = filter.Fields[Area]{
	Text:     func(a Area) string { return a.Name + " " + a.Neighborhood },
	Category: func(a Area) string { return string(a.Status) },
	Date:     func(a Area) string { return a.StartDate },
}
