package inventory

import (
	"strings"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type CreateItemRequest struct {
	Name       string  `json:"name" validate:"required,max=120"`
	Category   string  `json:"category" validate:"required,max=80"`
	Unit       string  `json:"unit" validate:"required,max=20"`
	CurrentQty float64 `json:"current_qty" validate:"gte=0"`
	MinQty     float64 `json:"min_qty" validate:"gte=0"`
}

func (r *CreateItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.Unit = strings.TrimSpace(r.Unit)
	return validator.Struct(r)
}

// UpdateItemRequest is partial. Quantity only changes through movements.
type UpdateItemRequest struct {
	ID       string   `json:"-"`
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Category *string  `json:"category,omitempty" validate:"omitempty,max=80"`
	Unit     *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	MinQty   *float64 `json:"min_qty,omitempty" validate:"omitempty,gte=0"`
}

func (r *UpdateItemRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return validator.Struct(r)
}

func (r UpdateItemRequest) Apply(i Item) Item {
	if r.Name != nil {
		i.Name = strings.TrimSpace(*r.Name)
	}
	if r.Category != nil {
		i.Category = strings.TrimSpace(*r.Category)
	}
	if r.Unit != nil {
		i.Unit = strings.TrimSpace(*r.Unit)
	}
	if r.MinQty != nil {
		i.MinQty = *r.MinQty
	}
	return i
}

type RegisterMovementRequest struct {
	ItemID      string       `json:"item_id" validate:"required"`
	Type        MovementType `json:"type" validate:"required,oneof=entrada saida"`
	Quantity    float64      `json:"quantity" validate:"gt=0"`
	Date        string       `json:"date" validate:"required,isodate"`
	Responsible string       `json:"responsible" validate:"max=120"`
	Note        string       `json:"note" validate:"max=500"`
}

func (r *RegisterMovementRequest) Validate() error {
	r.Responsible = strings.TrimSpace(r.Responsible)
	r.Note = strings.TrimSpace(r.Note)
	return validator.Struct(r)
}

type MovementResult struct {
	Movement Movement `json:"movement"`
	Item     Item     `json:"item"`
}

var ItemFields = filter.Fields[Item]{
	Text:     func(i Item) string { return i.Name },
	Category: func(i Item) string { return i.Category },
}

// MovementFields: the category of a movement is its type.
var MovementFields = filter.Fields[Movement]{
	Text:     func(m Movement) string { return m.ItemName + " " + m.Responsible + " " + m.Note },
	Category: func(m Movement) string { return string(m.Type) },
	Date:     func(m Movement) string { return m.Date },
}
