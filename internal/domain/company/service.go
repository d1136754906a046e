package company

import (
	"context"
)

type CompanyService interface {
	// List and Create are reserved to global admins.
	List(ctx context.Context) ([]Company, error)
	Create(ctx context.Context, req CreateCompanyRequest) (CreateCompanyResponse, error)

	// Current and UpdateSettings act on the caller's company.
	Current(ctx context.Context) (Company, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (Company, error)
}
