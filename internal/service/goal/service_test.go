package goal

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/repository/memory"
)

func TestGoalService_UpsertReplacesMonth(t *testing.T) {
	svc := NewGoalService(memory.NewStore().Goals(), nil)
	ctx := jwt.WithCompany(context.Background(), "c1")

	_, err := svc.Upsert(ctx, goal.UpsertGoalRequest{Month: "2025-03", Production: 1000, Revenue: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, goal.UpsertGoalRequest{Month: "2025-03", Production: 1200, Revenue: decimal.NewFromInt(6000)})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, goal.UpsertGoalRequest{Month: "2025-01", Production: 10})
	require.NoError(t, err)

	goals, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "2025-01", goals[0].Month)
	assert.Equal(t, 1200.0, goals[1].Production)
}

func TestGoalService_Validation(t *testing.T) {
	svc := NewGoalService(memory.NewStore().Goals(), nil)
	ctx := jwt.WithCompany(context.Background(), "c1")

	for _, req := range []goal.UpsertGoalRequest{
		{Month: "03/2025", Production: 1},
		{Month: "2025-03", Production: -1},
		{Month: "2025-03", Revenue: decimal.NewFromInt(-5)},
	} {
		_, err := svc.Upsert(ctx, req)
		assert.Error(t, err, req)
	}
}
