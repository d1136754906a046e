// Package fixtures holds the data every new company starts with.
package fixtures

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
)

//go:embed company_defaults.yaml
var companyDefaultsYAML []byte

type companyDefaults struct {
	FinanceCategories   []string `yaml:"finance_categories"`
	InventoryCategories []string `yaml:"inventory_categories"`
	ServiceRates        []struct {
		ServiceType string `yaml:"service_type"`
		Unit        string `yaml:"unit"`
		UnitValue   string `yaml:"unit_value"`
	} `yaml:"service_rates"`
}

// ParseCompanyDefaults decodes a defaults document.
func ParseCompanyDefaults(raw []byte) (company.Company, error) {
	var doc companyDefaults
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return company.Company{}, fmt.Errorf("parse company defaults: %w", err)
	}

	out := company.Company{
		FinanceCategories:   append([]string{}, doc.FinanceCategories...),
		InventoryCategories: append([]string{}, doc.InventoryCategories...),
		ServiceRates:        make([]production.ServiceRate, 0, len(doc.ServiceRates)),
	}
	for _, r := range doc.ServiceRates {
		value, err := decimal.NewFromString(r.UnitValue)
		if err != nil {
			return company.Company{}, fmt.Errorf("service rate %q: %w", r.ServiceType, err)
		}
		out.ServiceRates = append(out.ServiceRates, production.ServiceRate{
			ServiceType: r.ServiceType,
			Unit:        r.Unit,
			UnitValue:   value,
		})
	}
	return out, nil
}

// CompanyDefaults returns a fresh copy of the embedded defaults for a company
// named name.
func CompanyDefaults(name, document string) (company.Company, error) {
	c, err := ParseCompanyDefaults(companyDefaultsYAML)
	if err != nil {
		return company.Company{}, err
	}
	c.Name = name
	c.Document = document
	return c, nil
}
