package production

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceLine_SnapshotsRate(t *testing.T) {
	rate := ServiceRate{ServiceType: "Roçada", Unit: "m²", UnitValue: decimal.RequireFromString("0.35")}
	line := NewServiceLine("c1", "a1", "2025-03-10", 1200, rate)

	assert.Equal(t, "Roçada", line.ServiceType)
	assert.Equal(t, "m²", line.Unit)
	assert.True(t, line.TotalValue.Equal(decimal.RequireFromString("420")), line.TotalValue.String())

	rate.UnitValue = decimal.RequireFromString("1")
	assert.True(t, line.UnitValue.Equal(decimal.RequireFromString("0.35")))
}

func TestFindRate(t *testing.T) {
	rates := []ServiceRate{{ServiceType: "Capina"}, {ServiceType: "Varrição"}}
	r, ok := FindRate(rates, "Varrição")
	require.True(t, ok)
	assert.Equal(t, "Varrição", r.ServiceType)

	_, ok = FindRate(rates, "Pintura")
	assert.False(t, ok)
}

func TestAddServiceRequest_Validate(t *testing.T) {
	req := AddServiceRequest{ServiceType: "Capina", Date: "2025-03-01", Quantity: 0}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")

	req.Quantity = 10
	assert.NoError(t, req.Validate())
}
