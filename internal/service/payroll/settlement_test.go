package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
)

func rec(id string, value, bonus, discount int64, status attendance.PaymentStatus) attendance.Record {
	return attendance.Record{
		ID:            id,
		Value:         decimal.NewFromInt(value),
		BonusValue:    decimal.NewFromInt(bonus),
		DiscountValue: decimal.NewFromInt(discount),
		PaymentStatus: status,
	}
}

func TestComputeSettlement_ExcludesPaidRecords(t *testing.T) {
	got := ComputeSettlement([]attendance.Record{
		rec("r1", 100, 0, 0, attendance.PaymentPending),
		rec("r2", 50, 20, 10, attendance.PaymentPaid),
	})

	assert.True(t, got.TotalBase.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.TotalDiscounts.IsZero())
	assert.True(t, got.TotalBonuses.IsZero())
	assert.True(t, got.TotalToPay.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, []string{"r1"}, got.RecordIDs)
}

func TestComputeSettlement_EmptyIsZero(t *testing.T) {
	got := ComputeSettlement(nil)
	assert.True(t, got.TotalBase.IsZero())
	assert.True(t, got.TotalToPay.IsZero())
	assert.Empty(t, got.RecordIDs)
}

func TestComputeSettlement_OrderIndependent(t *testing.T) {
	records := []attendance.Record{
		rec("a", 150, 10, 0, attendance.PaymentPending),
		rec("b", 75, 0, 5, attendance.PaymentPending),
		rec("c", 0, 0, 0, attendance.PaymentPending),
	}
	reversed := []attendance.Record{records[2], records[1], records[0]}

	forward, backward := ComputeSettlement(records), ComputeSettlement(reversed)
	assert.True(t, forward.TotalToPay.Equal(backward.TotalToPay))
	assert.Equal(t, "230.00", forward.TotalToPay.StringFixed(2))
	assert.ElementsMatch(t, forward.RecordIDs, backward.RecordIDs)
}
