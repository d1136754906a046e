package company

import (
	"strings"

	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

// CreateCompanyRequest provisions a company together with its owner account.
type CreateCompanyRequest struct {
	Name          string `json:"name" validate:"required,max=160"`
	Document      string `json:"document" validate:"max=32"`
	OwnerName     string `json:"owner_name" validate:"required,max=120"`
	OwnerEmail    string `json:"owner_email" validate:"required,email"`
	OwnerPassword string `json:"owner_password" validate:"required,min=8"`
}

func (r *CreateCompanyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Document = strings.TrimSpace(r.Document)
	r.OwnerName = strings.TrimSpace(r.OwnerName)
	r.OwnerEmail = strings.ToLower(strings.TrimSpace(r.OwnerEmail))
	return validator.Struct(r)
}

type CreateCompanyResponse struct {
	Company Company           `json:"company"`
	Owner   user.UserResponse `json:"owner"`
}

// UpdateSettingsRequest replaces whole lists; nil lists are left alone.
type UpdateSettingsRequest struct {
	Name                *string                   `json:"name,omitempty" validate:"omitempty,min=1,max=160"`
	FinanceCategories   *[]string                 `json:"finance_categories,omitempty"`
	InventoryCategories *[]string                 `json:"inventory_categories,omitempty"`
	ServiceRates        *[]production.ServiceRate `json:"service_rates,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}
	if r.FinanceCategories != nil {
		cleaned, err := cleanCategories(*r.FinanceCategories)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "finance_categories", Message: err.Error()})
		}
		r.FinanceCategories = &cleaned
	}
	if r.InventoryCategories != nil {
		cleaned, err := cleanCategories(*r.InventoryCategories)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "inventory_categories", Message: err.Error()})
		}
		r.InventoryCategories = &cleaned
	}
	if r.ServiceRates != nil {
		seen := make(map[string]struct{}, len(*r.ServiceRates))
		for i, rate := range *r.ServiceRates {
			rate.ServiceType = strings.TrimSpace(rate.ServiceType)
			(*r.ServiceRates)[i] = rate
			if rate.ServiceType == "" {
				errs = append(errs, validator.ValidationError{Field: "service_rates", Message: "service type is required"})
				continue
			}
			if _, dup := seen[rate.ServiceType]; dup {
				errs = append(errs, validator.ValidationError{Field: "service_rates", Message: ErrDuplicateServiceType.Error()})
			}
			seen[rate.ServiceType] = struct{}{}
			if rate.UnitValue.IsNegative() {
				errs = append(errs, validator.ValidationError{Field: "service_rates", Message: "unit value must not be negative"})
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply returns c with the supplied settings written over it.
func (r UpdateSettingsRequest) Apply(c Company) Company {
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.FinanceCategories != nil {
		c.FinanceCategories = append([]string(nil), (*r.FinanceCategories)...)
	}
	if r.InventoryCategories != nil {
		c.InventoryCategories = append([]string(nil), (*r.InventoryCategories)...)
	}
	if r.ServiceRates != nil {
		c.ServiceRates = append([]production.ServiceRate(nil), (*r.ServiceRates)...)
	}
	return c
}

func cleanCategories(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			return out, ErrDuplicateCategory
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
