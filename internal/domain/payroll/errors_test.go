package payroll

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettlementIntegrityError(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("settle: %w", &SettlementIntegrityError{
		CashOutID:       "co-1",
		FailedRecordIDs: []string{"r2", "r3"},
		Cause:           cause,
	})

	var integrity *SettlementIntegrityError
	assert.True(t, errors.As(err, &integrity))
	assert.Equal(t, []string{"r2", "r3"}, integrity.FailedRecordIDs)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cash-out co-1")
	assert.Contains(t, err.Error(), "r2,r3")
}
