package finance

import "errors"

var (
	ErrEntryNotFound    = errors.New("cash entry not found")
	ErrInvalidDirection = errors.New("direction must be in or out")
	ErrUnknownCategory  = errors.New("category is not configured for this company")
)
