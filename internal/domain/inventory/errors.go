package inventory

import "errors"

var (
	ErrItemNotFound        = errors.New("inventory item not found")
	ErrMovementNotFound    = errors.New("inventory movement not found")
	ErrNegativeStock       = errors.New("movement would leave stock below zero")
	ErrInvalidMovementType = errors.New("movement type must be entrada or saida")
	ErrItemBusy            = errors.New("another movement for this item is being recorded")
)
