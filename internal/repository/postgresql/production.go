package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
)

const (
	areaColumns = `id, company_id, name, neighborhood, responsible_id, status, start_date::text, end_date::text,
	start_reference, end_reference, notes, created_at`
	serviceColumns = `id, area_id, company_id, service_type, date::text, quantity, unit, unit_value, total_value`
)

type areaRepositoryImpl struct {
	db *database.DB
}

func NewAreaRepository(db *database.DB) production.AreaRepository {
	return &areaRepositoryImpl{db: db}
}

func scanArea(row pgx.Row) (production.Area, error) {
	var a production.Area
	err := row.Scan(&a.ID, &a.CompanyID, &a.Name, &a.Neighborhood, &a.ResponsibleID, &a.Status,
		&a.StartDate, &a.EndDate, &a.StartReference, &a.EndReference, &a.Notes, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return production.Area{}, production.ErrAreaNotFound
		}
		return production.Area{}, err
	}
	a.Services = []production.ServiceLine{}
	return a, nil
}

func scanServiceLine(row pgx.Row) (production.ServiceLine, error) {
	var s production.ServiceLine
	err := row.Scan(&s.ID, &s.AreaID, &s.CompanyID, &s.ServiceType, &s.Date, &s.Quantity,
		&s.Unit, &s.UnitValue, &s.TotalValue)
	return s, err
}

// servicesByArea loads the service lines of the company, optionally for one area.
func (r *areaRepositoryImpl) servicesByArea(ctx context.Context, companyID, areaID string) (map[string][]production.ServiceLine, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + serviceColumns + ` FROM area_services WHERE company_id = $1`
	args := []interface{}{companyID}
	if areaID != "" {
		query += ` AND area_id = $2`
		args = append(args, areaID)
	}
	query += ` ORDER BY date, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]production.ServiceLine)
	for rows.Next() {
		s, err := scanServiceLine(rows)
		if err != nil {
			return nil, err
		}
		out[s.AreaID] = append(out[s.AreaID], s)
	}
	return out, rows.Err()
}

// List implements production.AreaRepository.
func (r *areaRepositoryImpl) List(ctx context.Context, companyID string) ([]production.Area, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+areaColumns+` FROM areas WHERE company_id = $1 ORDER BY start_date DESC, name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []production.Area
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	services, err := r.servicesByArea(ctx, companyID, "")
	if err != nil {
		return nil, err
	}
	for i := range areas {
		if lines, ok := services[areas[i].ID]; ok {
			areas[i].Services = lines
		}
	}
	return areas, nil
}

// GetByID implements production.AreaRepository.
func (r *areaRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (production.Area, error) {
	q := GetQuerier(ctx, r.db)
	a, err := scanArea(q.QueryRow(ctx, `SELECT `+areaColumns+` FROM areas WHERE id = $1 AND company_id = $2`, id, companyID))
	if err != nil {
		return production.Area{}, err
	}
	return r.withServices(ctx, a)
}

func (r *areaRepositoryImpl) withServices(ctx context.Context, a production.Area) (production.Area, error) {
	services, err := r.servicesByArea(ctx, a.CompanyID, a.ID)
	if err != nil {
		return production.Area{}, err
	}
	if lines, ok := services[a.ID]; ok {
		a.Services = lines
	}
	return a, nil
}

// Create implements production.AreaRepository.
func (r *areaRepositoryImpl) Create(ctx context.Context, a production.Area) (production.Area, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO areas (company_id, name, neighborhood, responsible_id, status, start_date, start_reference, notes)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8)
		RETURNING ` + areaColumns

	if a.Status == "" {
		a.Status = production.AreaExecuting
	}
	return scanArea(q.QueryRow(ctx, query, a.CompanyID, a.Name, a.Neighborhood, a.ResponsibleID,
		a.Status, a.StartDate, a.StartReference, a.Notes))
}

// Update implements production.AreaRepository.
func (r *areaRepositoryImpl) Update(ctx context.Context, companyID string, req production.UpdateAreaRequest) (production.Area, error) {
	var u partialUpdate
	if req.Name != nil {
		u.set("name", *req.Name)
	}
	if req.Neighborhood != nil {
		u.set("neighborhood", *req.Neighborhood)
	}
	if req.ResponsibleID != nil {
		u.set("responsible_id", nullable(*req.ResponsibleID))
	}
	if req.StartDate != nil {
		u.setExpr("start_date", "$%d::date", *req.StartDate)
	}
	if req.StartReference != nil {
		u.set("start_reference", *req.StartReference)
	}
	if req.Notes != nil {
		u.set("notes", *req.Notes)
	}
	if u.empty() {
		return r.GetByID(ctx, companyID, req.ID)
	}

	query, args := u.statement("areas", areaColumns, req.ID, companyID)
	q := GetQuerier(ctx, r.db)
	a, err := scanArea(q.QueryRow(ctx, query, args...))
	if err != nil {
		return production.Area{}, err
	}
	return r.withServices(ctx, a)
}

// Finish implements production.AreaRepository.
func (r *areaRepositoryImpl) Finish(ctx context.Context, companyID, id, endDate, endReference string) (production.Area, error) {
	var u partialUpdate
	u.set("status", production.AreaFinished)
	u.setExpr("end_date", "$%d::date", endDate)
	u.set("end_reference", endReference)

	query, args := u.statement("areas", areaColumns, id, companyID)
	q := GetQuerier(ctx, r.db)
	a, err := scanArea(q.QueryRow(ctx, query, args...))
	if err != nil {
		return production.Area{}, err
	}
	return r.withServices(ctx, a)
}

// AddService implements production.AreaRepository.
func (r *areaRepositoryImpl) AddService(ctx context.Context, line production.ServiceLine) (production.ServiceLine, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO area_services (area_id, company_id, service_type, date, quantity, unit, unit_value, total_value)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8)
		RETURNING ` + serviceColumns
	return scanServiceLine(q.QueryRow(ctx, query, line.AreaID, line.CompanyID, line.ServiceType,
		line.Date, line.Quantity, line.Unit, line.UnitValue, line.TotalValue))
}

// DeleteService implements production.AreaRepository.
func (r *areaRepositoryImpl) DeleteService(ctx context.Context, companyID, areaID, serviceID string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM area_services WHERE id = $1 AND area_id = $2 AND company_id = $3`,
		serviceID, areaID, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return production.ErrServiceNotFound
	}
	return nil
}
