package attendance

import "context"

type AttendanceRepository interface {
	GetByID(ctx context.Context, companyID, id string) (Record, error)
	// GetByEmployeeDate returns ErrRecordNotFound when the day has no record.
	GetByEmployeeDate(ctx context.Context, companyID, employeeID, date string) (Record, error)
	// List returns records in the inclusive date range; empty bounds are open.
	List(ctx context.Context, companyID string, filter ListFilter) ([]Record, error)
	Create(ctx context.Context, r Record) (Record, error)
	Update(ctx context.Context, companyID, id string, patch Patch) (Record, error)
	Delete(ctx context.Context, companyID, id string) error
	// ClaimForPayment flips the given records to pago, skipping any that are
	// already pago, and returns only the rows it changed.
	ClaimForPayment(ctx context.Context, companyID string, ids []string) ([]Record, error)
}
