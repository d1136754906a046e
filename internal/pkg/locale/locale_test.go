package locale

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExportNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  decimal.Decimal
		places int32
		want   string
	}{
		{"no grouping", decimal.RequireFromString("1234.5"), 2, "1234,50"},
		{"zero", decimal.Zero, 2, "0,00"},
		{"negative", decimal.RequireFromString("-10.125"), 2, "-10,13"},
		{"large", decimal.RequireFromString("1234567.891"), 2, "1234567,89"},
		{"integer places", decimal.NewFromInt(42), 0, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportNumber(tt.value, tt.places))
		})
	}
}

func TestExportQuantity(t *testing.T) {
	assert.Equal(t, "12,50", ExportQuantity(12.5, 2))
}

func TestCurrency_DiffersFromExportPolicy(t *testing.T) {
	d := decimal.RequireFromString("1234.5")

	assert.Equal(t, "R$ 1.234,50", Currency(d))
	assert.NotEqual(t, Currency(d), ExportNumber(d, 2))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"150", "150", true},
		{"150.75", "150.75", true},
		{"150,75", "150.75", true},
		{"1.234,56", "1234.56", true},
		{"R$ 1.234,56", "1234.56", true},
		{"  80 ", "80", true},
		{"", "0", false},
		{"abc", "0", false},
		{"12,3,4", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestDate(t *testing.T) {
	assert.Equal(t, "31/01/2025", Date("2025-01-31"))
	assert.Equal(t, "31/01/2025", Date("2025-01-31T10:00:00Z"))
	assert.Equal(t, "not a date", Date("not a date"))
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, "jan", ShortMonth(time.January))
	assert.Equal(t, "dezembro", LongMonth(time.December))
	assert.Equal(t, "março de 2025", MonthTitle("2025-03"))
	assert.Equal(t, "bad", MonthTitle("bad"))
}
