package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
)

const employeeColumns = `id, company_id, name, role, payment_modality, default_value, status,
	shift_start, break_start, break_end, shift_end, phone, document, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.Name, &e.Role, &e.PaymentModality, &e.DefaultValue, &e.Status,
		&e.ShiftStart, &e.BreakStart, &e.BreakEnd, &e.ShiftEnd, &e.Phone, &e.Document,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND company_id = $2`
	return scanEmployee(q.QueryRow(ctx, query, id, companyID))
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE company_id = $1 ORDER BY name`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO employees (
			company_id, name, role, payment_modality, default_value, status,
			shift_start, break_start, break_end, shift_end, phone, document
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + employeeColumns

	if e.Status == "" {
		e.Status = employee.StatusActive
	}
	return scanEmployee(q.QueryRow(ctx, query,
		e.CompanyID, e.Name, e.Role, e.PaymentModality, e.DefaultValue, e.Status,
		e.ShiftStart, e.BreakStart, e.BreakEnd, e.ShiftEnd, e.Phone, e.Document,
	))
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, companyID string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	var u partialUpdate
	if req.Name != nil {
		u.set("name", *req.Name)
	}
	if req.Role != nil {
		u.set("role", *req.Role)
	}
	if req.PaymentModality != nil {
		u.set("payment_modality", *req.PaymentModality)
	}
	if req.DefaultValue != nil {
		u.set("default_value", *req.DefaultValue)
	}
	if req.ShiftStart != nil {
		u.set("shift_start", nullable(*req.ShiftStart))
	}
	if req.BreakStart != nil {
		u.set("break_start", nullable(*req.BreakStart))
	}
	if req.BreakEnd != nil {
		u.set("break_end", nullable(*req.BreakEnd))
	}
	if req.ShiftEnd != nil {
		u.set("shift_end", nullable(*req.ShiftEnd))
	}
	if req.Phone != nil {
		u.set("phone", nullable(*req.Phone))
	}
	if req.Document != nil {
		u.set("document", nullable(*req.Document))
	}
	if u.empty() {
		return r.GetByID(ctx, companyID, req.ID)
	}

	query, args := u.statement("employees", employeeColumns, req.ID, companyID)
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, query, args...))
}

// SetStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetStatus(ctx context.Context, companyID, id string, status employee.Status) (employee.Employee, error) {
	var u partialUpdate
	u.set("status", status)
	query, args := u.statement("employees", employeeColumns, id, companyID)
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, query, args...))
}

// nullable stores "" as NULL so cleared optional fields read back as nil.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
