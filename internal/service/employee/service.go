package employee

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	snapshot snapshot.Committer
	logger   *slog.Logger
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	committer snapshot.Committer,
	logger *slog.Logger,
) employee.EmployeeService {
	if committer == nil {
		committer = snapshot.NopCommitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepo,
		snapshot:           committer,
		logger:             logger,
	}
}

// List returns active employees first, then by name.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.Employee, error) {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.EmployeeRepository.List(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	sort.SliceStable(employees, func(i, j int) bool {
		if employees[i].IsActive() != employees[j].IsActive() {
			return employees[i].IsActive()
		}
		return employees[i].Name < employees[j].Name
	})
	return employees, nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.Employee, error) {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	return s.EmployeeRepository.GetByID(ctx, companyID, id)
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	ctx = context.WithoutCancel(ctx)
	created, err := s.EmployeeRepository.Create(ctx, employee.Employee{
		CompanyID:       companyID,
		Name:            req.Name,
		Role:            req.Role,
		PaymentModality: req.PaymentModality,
		DefaultValue:    req.DefaultValue.Round(2),
		Status:          employee.StatusActive,
		ShiftStart:      req.ShiftStart,
		BreakStart:      req.BreakStart,
		BreakEnd:        req.BreakEnd,
		ShiftEnd:        req.ShiftEnd,
		Phone:           req.Phone,
		Document:        req.Document,
	})
	if err != nil {
		return employee.Employee{}, fmt.Errorf("create employee: %w", err)
	}

	s.logger.InfoContext(ctx, "employee created",
		slog.String("company_id", companyID),
		slog.String("employee_id", created.ID))
	s.snapshot.Commit(ctx, companyID, snapshot.UpsertEmployee(created))
	return created, nil
}

// Update writes only the supplied fields. An empty request returns the
// current employee unchanged.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	if req.IsEmpty() {
		return s.EmployeeRepository.GetByID(ctx, companyID, req.ID)
	}
	if req.DefaultValue != nil {
		rounded := req.DefaultValue.Round(2)
		req.DefaultValue = &rounded
	}

	ctx = context.WithoutCancel(ctx)
	updated, err := s.EmployeeRepository.Update(ctx, companyID, req)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("update employee: %w", err)
	}
	s.snapshot.Commit(ctx, companyID, snapshot.UpsertEmployee(updated))
	return updated, nil
}

// ToggleStatus flips active/inactive. Employees are never deleted so their
// attendance history keeps resolving.
func (s *EmployeeServiceImpl) ToggleStatus(ctx context.Context, id string) (employee.Employee, error) {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	current, err := s.EmployeeRepository.GetByID(ctx, companyID, id)
	if err != nil {
		return employee.Employee{}, err
	}

	next := employee.StatusInactive
	if !current.IsActive() {
		next = employee.StatusActive
	}

	ctx = context.WithoutCancel(ctx)
	updated, err := s.EmployeeRepository.SetStatus(ctx, companyID, id, next)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("set employee status: %w", err)
	}
	s.logger.InfoContext(ctx, "employee status changed",
		slog.String("company_id", companyID),
		slog.String("employee_id", id),
		slog.String("status", string(next)))
	s.snapshot.Commit(ctx, companyID, snapshot.UpsertEmployee(updated))
	return updated, nil
}
