package company

import "errors"

var (
	ErrCompanyNotFound      = errors.New("company not found")
	ErrDuplicateCategory    = errors.New("category listed twice")
	ErrDuplicateServiceType = errors.New("service type listed twice")
)
