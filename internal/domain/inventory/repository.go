package inventory

import "context"

type ItemRepository interface {
	List(ctx context.Context, companyID string) ([]Item, error)
	GetByID(ctx context.Context, companyID, id string) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, companyID string, req UpdateItemRequest) (Item, error)
	SetQuantity(ctx context.Context, companyID, id string, qty float64) error
}

type MovementRepository interface {
	List(ctx context.Context, companyID string) ([]Movement, error)
	GetByID(ctx context.Context, companyID, id string) (Movement, error)
	Create(ctx context.Context, m Movement) (Movement, error)
	Delete(ctx context.Context, companyID, id string) error
}
