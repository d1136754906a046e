package company

import "context"

type CompanyRepository interface {
	List(ctx context.Context) ([]Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	Create(ctx context.Context, newCompany Company) (Company, error)
	// UpdateSettings writes only the non-nil lists of req.
	UpdateSettings(ctx context.Context, id string, req UpdateSettingsRequest) (Company, error)
}
