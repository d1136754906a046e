package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Unit       string    `json:"unit"`
	CurrentQty float64   `json:"current_qty"`
	MinQty     float64   `json:"min_qty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsCritical reports whether stock is at or below the minimum.
func (i Item) IsCritical() bool {
	return i.CurrentQty <= i.MinQty
}

type MovementType string

const (
	MovementIn  MovementType = "entrada"
	MovementOut MovementType = "saida"
)

func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// Movement is an immutable stock ledger row. Removing one must apply the
// exact inverse of its delta.
type Movement struct {
	ID          string       `json:"id"`
	CompanyID   string       `json:"company_id"`
	ItemID      string       `json:"item_id"`
	ItemName    string       `json:"item_name,omitempty"`
	Type        MovementType `json:"type"`
	Quantity    float64      `json:"quantity"`
	Date        string       `json:"date"`
	Responsible string       `json:"responsible"`
	Note        string       `json:"note"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Delta is the signed change the movement applies to CurrentQty.
func (m Movement) Delta() decimal.Decimal {
	q := decimal.NewFromFloat(m.Quantity)
	if m.Type == MovementOut {
		return q.Neg()
	}
	return q
}

// Apply returns item after m. Stock never goes negative.
func Apply(item Item, m Movement) (Item, error) {
	return shift(item, m.Delta())
}

// Reverse returns item as if m had never happened.
func Reverse(item Item, m Movement) (Item, error) {
	return shift(item, m.Delta().Neg())
}

func shift(item Item, delta decimal.Decimal) (Item, error) {
	next := decimal.NewFromFloat(item.CurrentQty).Add(delta)
	if next.IsNegative() {
		return item, ErrNegativeStock
	}
	item.CurrentQty = next.InexactFloat64()
	return item, nil
}
