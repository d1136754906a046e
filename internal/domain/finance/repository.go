package finance

import "context"

type EntryRepository interface {
	Create(ctx context.Context, e Entry) (Entry, error)
	GetByID(ctx context.Context, companyID, id string) (Entry, error)
	List(ctx context.Context, companyID string, direction Direction) ([]Entry, error)
	Delete(ctx context.Context, companyID, id string) error
}
