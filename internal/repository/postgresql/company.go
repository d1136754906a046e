package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
)

const companyColumns = `id, name, document, finance_categories, inventory_categories, service_rates, created_at, updated_at`

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(&c.ID, &c.Name, &c.Document, &c.FinanceCategories, &c.InventoryCategories,
		&c.ServiceRates, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, err
	}
	return c, nil
}

func rates(r []production.ServiceRate) []production.ServiceRate {
	if r == nil {
		return []production.ServiceRate{}
	}
	return r
}

func strs(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// List implements company.CompanyRepository.
func (r *companyRepositoryImpl) List(ctx context.Context) ([]company.Company, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []company.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// GetByID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)
	return scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

// Create implements company.CompanyRepository.
func (r *companyRepositoryImpl) Create(ctx context.Context, c company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO companies (name, document, finance_categories, inventory_categories, service_rates)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + companyColumns
	return scanCompany(q.QueryRow(ctx, query, c.Name, c.Document,
		strs(c.FinanceCategories), strs(c.InventoryCategories), rates(c.ServiceRates)))
}

// UpdateSettings implements company.CompanyRepository.
func (r *companyRepositoryImpl) UpdateSettings(ctx context.Context, id string, req company.UpdateSettingsRequest) (company.Company, error) {
	var u partialUpdate
	if req.Name != nil {
		u.set("name", *req.Name)
	}
	if req.FinanceCategories != nil {
		u.set("finance_categories", strs(*req.FinanceCategories))
	}
	if req.InventoryCategories != nil {
		u.set("inventory_categories", strs(*req.InventoryCategories))
	}
	if req.ServiceRates != nil {
		u.set("service_rates", rates(*req.ServiceRates))
	}
	if u.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := u.statementByID("companies", companyColumns, id)
	q := GetQuerier(ctx, r.db)
	return scanCompany(q.QueryRow(ctx, query, args...))
}
