package inventory

import (
	"context"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
)

type InventoryService interface {
	ListItems(ctx context.Context, c filter.Criteria) ([]Item, error)
	CriticalItems(ctx context.Context) ([]Item, error)
	CreateItem(ctx context.Context, req CreateItemRequest) (Item, error)
	UpdateItem(ctx context.Context, req UpdateItemRequest) (Item, error)
	ListMovements(ctx context.Context, c filter.Criteria) ([]Movement, error)
	RegisterMovement(ctx context.Context, req RegisterMovementRequest) (MovementResult, error)
	ReverseMovement(ctx context.Context, id string) (Item, error)
}
