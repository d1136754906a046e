package employee

import (
	"context"
)

// EmployeeService manages the workforce roster. Employees are never deleted;
// ToggleStatus soft-deactivates them so history keeps resolving.
type EmployeeService interface {
	List(ctx context.Context) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)
	ToggleStatus(ctx context.Context, id string) (Employee, error)
}
