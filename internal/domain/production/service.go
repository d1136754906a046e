package production

import (
	"context"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
)

type ProductionService interface {
	ListAreas(ctx context.Context, c filter.Criteria) ([]Area, error)
	GetArea(ctx context.Context, id string) (Area, error)
	CreateArea(ctx context.Context, req CreateAreaRequest) (Area, error)
	UpdateArea(ctx context.Context, req UpdateAreaRequest) (Area, error)
	FinishArea(ctx context.Context, req FinishAreaRequest) (Area, error)
	AddService(ctx context.Context, req AddServiceRequest) (ServiceLine, error)
	RemoveService(ctx context.Context, areaID, serviceID string) error
	Report(ctx context.Context, c filter.Criteria) (Report, error)
}
