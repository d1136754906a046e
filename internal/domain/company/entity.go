package company

import (
	"time"

	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
)

type Company struct {
	ID                  string                   `json:"id"`
	Name                string                   `json:"name"`
	Document            string                   `json:"document"`
	FinanceCategories   []string                 `json:"finance_categories"`
	InventoryCategories []string                 `json:"inventory_categories"`
	ServiceRates        []production.ServiceRate `json:"service_rates"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

func (c Company) HasFinanceCategory(name string) bool {
	for _, cat := range c.FinanceCategories {
		if cat == name {
			return true
		}
	}
	return false
}
