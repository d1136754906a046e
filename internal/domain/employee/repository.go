package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, companyID, id string) (Employee, error)
	List(ctx context.Context, companyID string) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	// Update writes only the non-nil fields of req.
	Update(ctx context.Context, companyID string, req UpdateEmployeeRequest) (Employee, error)
	SetStatus(ctx context.Context, companyID, id string, status Status) (Employee, error)
}
