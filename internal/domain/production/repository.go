package production

import "context"

type AreaRepository interface {
	// List returns areas with their service lines.
	List(ctx context.Context, companyID string) ([]Area, error)
	GetByID(ctx context.Context, companyID, id string) (Area, error)
	Create(ctx context.Context, a Area) (Area, error)
	Update(ctx context.Context, companyID string, req UpdateAreaRequest) (Area, error)
	Finish(ctx context.Context, companyID, id, endDate, endReference string) (Area, error)
	AddService(ctx context.Context, line ServiceLine) (ServiceLine, error)
	DeleteService(ctx context.Context, companyID, areaID, serviceID string) error
}
