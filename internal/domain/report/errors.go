package report

import "errors"

var (
	ErrUnknownDomain = errors.New("unknown export domain")
	ErrUnknownFormat = errors.New("unknown export format")
)
