package finance

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
	"github.com/gestao-urbana/backoffice-go/internal/repository/memory"
)

func setup(t *testing.T) (finance.FinanceService, context.Context) {
	t.Helper()
	store := memory.NewStore()
	comp, err := store.Companies().Create(context.Background(), company.Company{
		Name:              "Verde Urbano",
		FinanceCategories: []string{"Contrato", "Combustível", "Folha de Pagamento"},
	})
	require.NoError(t, err)
	return NewFinanceService(store.Entries(), store.Companies(), nil, nil), jwt.WithCompany(context.Background(), comp.ID)
}

func post(t *testing.T, svc finance.FinanceService, ctx context.Context, dir finance.Direction, date, value, category, ref string) finance.Entry {
	t.Helper()
	e, err := svc.Post(ctx, finance.CreateEntryRequest{
		Direction: dir, Date: date, Value: decimal.RequireFromString(value), Category: category, Reference: ref,
	})
	require.NoError(t, err)
	return e
}

func TestFinanceService_ListTotals(t *testing.T) {
	svc, ctx := setup(t)
	post(t, svc, ctx, finance.DirectionIn, "2025-03-01", "1000", "Contrato", "Medição março")
	post(t, svc, ctx, finance.DirectionOut, "2025-03-05", "250.50", "Combustível", "Posto")
	post(t, svc, ctx, finance.DirectionOut, "2025-04-01", "100", "Combustível", "Posto")

	both, err := svc.List(ctx, finance.ListEntriesRequest{})
	require.NoError(t, err)
	assert.Len(t, both.Entries, 3)
	assert.Equal(t, "649.50", both.Total.StringFixed(2))

	out, err := svc.List(ctx, finance.ListEntriesRequest{
		Direction: finance.DirectionOut,
		Criteria:  filter.Criteria{From: "2025-03-01", To: "2025-03-31"},
	})
	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "250.50", out.Total.StringFixed(2))

	searched, err := svc.List(ctx, finance.ListEntriesRequest{Criteria: filter.Criteria{Search: "MEDIÇÃO"}})
	require.NoError(t, err)
	assert.Len(t, searched.Entries, 1)
}

func TestFinanceService_PostRejectsUnknownCategory(t *testing.T) {
	svc, ctx := setup(t)
	_, err := svc.Post(ctx, finance.CreateEntryRequest{
		Direction: finance.DirectionIn, Date: "2025-03-01", Value: decimal.NewFromInt(10), Category: "Outros",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "category", verrs[0].Field)
}

func TestFinanceService_PostRejectsNonPositive(t *testing.T) {
	svc, ctx := setup(t)
	_, err := svc.Post(ctx, finance.CreateEntryRequest{
		Direction: finance.DirectionIn, Date: "2025-03-01", Value: decimal.Zero, Category: "Contrato",
	})
	assert.Error(t, err)
}

func TestFinanceService_Delete(t *testing.T) {
	svc, ctx := setup(t)
	e := post(t, svc, ctx, finance.DirectionIn, "2025-03-01", "10", "Contrato", "")

	require.NoError(t, svc.Delete(ctx, e.ID))
	assert.ErrorIs(t, svc.Delete(ctx, e.ID), finance.ErrEntryNotFound)
}
