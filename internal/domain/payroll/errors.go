package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNothingToSettle       = errors.New("no pending attendance records in the selected range")
	ErrSettlementInProgress  = errors.New("a settlement for this employee is already running")
	ErrInvalidPeriod         = errors.New("invalid settlement period")
	ErrNonPositiveSettlement = errors.New("settlement total must be greater than zero")
	// ErrInformationalSettlement rejects posting pay for CLT employees, whose
	// per-day values carry the monthly reference and only feed the preview.
	ErrInformationalSettlement = errors.New("CLT payroll is not settled per day")
)

// SettlementIntegrityError means the cash-out entry was written but some
// records could not be marked pago. Retrying would post a second cash-out, so
// it must be reconciled by hand using the ids below.
type SettlementIntegrityError struct {
	CashOutID       string
	FailedRecordIDs []string
	Cause           error
}

func (e *SettlementIntegrityError) Error() string {
	return fmt.Sprintf("settlement integrity: cash-out %s posted but %d record(s) not marked paid: %s",
		e.CashOutID, len(e.FailedRecordIDs), strings.Join(e.FailedRecordIDs, ","))
}

func (e *SettlementIntegrityError) Unwrap() error {
	return e.Cause
}
