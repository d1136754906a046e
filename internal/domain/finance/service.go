package finance

import "context"

type FinanceService interface {
	Post(ctx context.Context, req CreateEntryRequest) (Entry, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req ListEntriesRequest) (ListEntriesResponse, error)
}
