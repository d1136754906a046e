package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Entry is a flat cash ledger line. Reference is free text; it is the only
// link back to whatever produced the entry.
type Entry struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Direction   Direction       `json:"direction"`
	Date        string          `json:"date"`
	Value       decimal.Decimal `json:"value"`
	Category    string          `json:"category"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
