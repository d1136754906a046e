package production

import "errors"

var (
	ErrAreaNotFound        = errors.New("area not found")
	ErrAreaFinished        = errors.New("area is finished and cannot be changed")
	ErrServiceNotFound     = errors.New("service line not found")
	ErrUnknownServiceType  = errors.New("service type has no configured rate")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrResponsibleNotFound = errors.New("responsible employee not found")
)
