package production

import (
	"time"

	"github.com/shopspring/decimal"
)

type AreaStatus string

const (
	AreaExecuting AreaStatus = "executing"
	AreaFinished  AreaStatus = "finished"
)

// Area is a work order. It only moves from executing to finished.
type Area struct {
	ID             string        `json:"id"`
	CompanyID      string        `json:"company_id"`
	Name           string        `json:"name"`
	Neighborhood   string        `json:"neighborhood"`
	ResponsibleID  *string       `json:"responsible_id,omitempty"`
	Status         AreaStatus    `json:"status"`
	StartDate      string        `json:"start_date"`
	EndDate        *string       `json:"end_date,omitempty"`
	StartReference string        `json:"start_reference"`
	EndReference   string        `json:"end_reference"`
	Notes          string        `json:"notes"`
	Services       []ServiceLine `json:"services"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (a Area) IsFinished() bool {
	return a.Status == AreaFinished
}

// ServiceLine is one dated measurement. UnitValue is copied from the company
// rate when the line is entered and never follows later rate changes.
type ServiceLine struct {
	ID          string          `json:"id"`
	AreaID      string          `json:"area_id"`
	CompanyID   string          `json:"company_id"`
	ServiceType string          `json:"service_type"`
	Date        string          `json:"date"`
	Quantity    float64         `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// ServiceRate is the configured price of one service type.
type ServiceRate struct {
	ServiceType string          `json:"service_type"`
	Unit        string          `json:"unit"`
	UnitValue   decimal.Decimal `json:"unit_value"`
}

// NewServiceLine prices quantity at rate.
func NewServiceLine(companyID, areaID, date string, quantity float64, rate ServiceRate) ServiceLine {
	return ServiceLine{
		AreaID:      areaID,
		CompanyID:   companyID,
		ServiceType: rate.ServiceType,
		Date:        date,
		Quantity:    quantity,
		Unit:        rate.Unit,
		UnitValue:   rate.UnitValue,
		TotalValue:  decimal.NewFromFloat(quantity).Mul(rate.UnitValue).Round(2),
	}
}

// FindRate looks serviceType up in rates.
func FindRate(rates []ServiceRate, serviceType string) (ServiceRate, bool) {
	for _, r := range rates {
		if r.ServiceType == serviceType {
			return r, true
		}
	}
	return ServiceRate{}, false
}
