package dashboard

import "errors"

var (
	ErrInvalidPeriod = errors.New("period must be in YYYY-MM format")
	ErrInvalidRange  = errors.New("range must be between 1 and 24 months")
)
