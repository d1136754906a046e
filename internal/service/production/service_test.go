package production

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/repository/memory"
)

func setup(t *testing.T) (production.ProductionService, *memory.Store, context.Context) {
	t.Helper()
	store := memory.NewStore()
	comp, err := store.Companies().Create(context.Background(), company.Company{
		Name: "Verde Urbano",
		ServiceRates: []production.ServiceRate{
			{ServiceType: "capina", Unit: "m2", UnitValue: decimal.RequireFromString("0.35")},
			{ServiceType: "rocada", Unit: "m2", UnitValue: decimal.RequireFromString("0.50")},
		},
	})
	require.NoError(t, err)

	svc := NewProductionService(store.Areas(), store.Companies(), store.Employees(), nil, nil)
	return svc, store, jwt.WithCompany(context.Background(), comp.ID)
}

func TestProductionService_ServiceLineSnapshotsRate(t *testing.T) {
	svc, store, ctx := setup(t)
	companyID, _ := jwt.CompanyFromContext(ctx)

	area, err := svc.CreateArea(ctx, production.CreateAreaRequest{Name: "Praça", StartDate: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, production.AreaExecuting, area.Status)

	line, err := svc.AddService(ctx, production.AddServiceRequest{AreaID: area.ID, ServiceType: "capina", Date: "2025-03-02", Quantity: 1000})
	require.NoError(t, err)
	assert.Equal(t, "350.00", line.TotalValue.StringFixed(2))

	rates := []production.ServiceRate{{ServiceType: "capina", Unit: "m2", UnitValue: decimal.NewFromInt(9)}}
	_, err = store.Companies().UpdateSettings(context.Background(), companyID, company.UpdateSettingsRequest{ServiceRates: &rates})
	require.NoError(t, err)

	got, err := svc.GetArea(ctx, area.ID)
	require.NoError(t, err)
	require.Len(t, got.Services, 1)
	assert.Equal(t, "0.35", got.Services[0].UnitValue.String())
}

func TestProductionService_AddServiceRejections(t *testing.T) {
	svc, _, ctx := setup(t)
	area, err := svc.CreateArea(ctx, production.CreateAreaRequest{Name: "Rua A", StartDate: "2025-03-01"})
	require.NoError(t, err)

	_, err = svc.AddService(ctx, production.AddServiceRequest{AreaID: area.ID, ServiceType: "capina", Date: "2025-03-02", Quantity: 0})
	assert.Error(t, err)

	_, err = svc.AddService(ctx, production.AddServiceRequest{AreaID: area.ID, ServiceType: "poda", Date: "2025-03-02", Quantity: 3})
	assert.ErrorIs(t, err, production.ErrUnknownServiceType)

	_, err = svc.FinishArea(ctx, production.FinishAreaRequest{ID: area.ID, EndDate: "2025-03-10"})
	require.NoError(t, err)

	_, err = svc.AddService(ctx, production.AddServiceRequest{AreaID: area.ID, ServiceType: "capina", Date: "2025-03-11", Quantity: 3})
	assert.ErrorIs(t, err, production.ErrAreaFinished)

	_, err = svc.FinishArea(ctx, production.FinishAreaRequest{ID: area.ID, EndDate: "2025-03-12"})
	assert.ErrorIs(t, err, production.ErrAreaFinished)
}

func TestProductionService_ResponsibleMustExist(t *testing.T) {
	svc, _, ctx := setup(t)
	ghost := "missing"
	_, err := svc.CreateArea(ctx, production.CreateAreaRequest{Name: "Rua B", StartDate: "2025-03-01", ResponsibleID: &ghost})
	assert.ErrorIs(t, err, production.ErrResponsibleNotFound)
}

func TestProductionService_RemoveServiceAndReport(t *testing.T) {
	svc, _, ctx := setup(t)
	north, err := svc.CreateArea(ctx, production.CreateAreaRequest{Name: "Lote Norte", Neighborhood: "Jardim", StartDate: "2025-02-01"})
	require.NoError(t, err)
	south, err := svc.CreateArea(ctx, production.CreateAreaRequest{Name: "Lote Sul", Neighborhood: "Centro", StartDate: "2025-03-01"})
	require.NoError(t, err)

	keep, err := svc.AddService(ctx, production.AddServiceRequest{AreaID: north.ID, ServiceType: "capina", Date: "2025-02-02", Quantity: 100})
	require.NoError(t, err)
	drop, err := svc.AddService(ctx, production.AddServiceRequest{AreaID: north.ID, ServiceType: "rocada", Date: "2025-02-03", Quantity: 40})
	require.NoError(t, err)
	_, err = svc.AddService(ctx, production.AddServiceRequest{AreaID: south.ID, ServiceType: "rocada", Date: "2025-03-02", Quantity: 10})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveService(ctx, north.ID, drop.ID))
	assert.ErrorIs(t, svc.RemoveService(ctx, north.ID, drop.ID), production.ErrServiceNotFound)

	all, err := svc.Report(ctx, filter.Criteria{})
	require.NoError(t, err)
	assert.Len(t, all.Areas, 2)
	assert.Equal(t, map[string]float64{"capina": 100, "rocada": 10}, all.ByServiceType)
	assert.Equal(t, 110.0, all.TotalQuantity)
	assert.Equal(t, "40.00", all.TotalValue.StringFixed(2))

	jardim, err := svc.Report(ctx, filter.Criteria{Search: "jardim"})
	require.NoError(t, err)
	require.Len(t, jardim.Areas, 1)
	assert.Equal(t, keep.ID, jardim.Areas[0].Services[0].ID)

	_, err = svc.Report(ctx, filter.Criteria{From: "2025-04-01", To: "2025-03-01"})
	assert.Error(t, err)
}

type stateCommitter struct {
	mu    sync.Mutex
	state snapshot.Snapshot
}

func (c *stateCommitter) Commit(_ context.Context, _ string, reduce snapshot.Reducer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = reduce(c.state)
}

// interleavedAreas runs between once, right after the next GetByID, to
// stand in for a request that commits while another is mid-flight.
type interleavedAreas struct {
	production.AreaRepository
	between func()
}

func (r *interleavedAreas) GetByID(ctx context.Context, companyID, id string) (production.Area, error) {
	area, err := r.AreaRepository.GetByID(ctx, companyID, id)
	if fn := r.between; fn != nil {
		r.between = nil
		fn()
	}
	return area, err
}

func TestProductionService_OverlappingWritesKeepEveryLineInSnapshot(t *testing.T) {
	_, store, ctx := setup(t)
	committer := &stateCommitter{}
	repo := &interleavedAreas{AreaRepository: store.Areas()}
	svc := NewProductionService(repo, store.Companies(), store.Employees(), committer, nil)

	area, err := svc.CreateArea(ctx, production.CreateAreaRequest{Name: "Canteiro", StartDate: "2025-03-01"})
	require.NoError(t, err)
	first, err := svc.AddService(ctx, production.AddServiceRequest{AreaID: area.ID, ServiceType: "capina", Date: "2025-03-02", Quantity: 10})
	require.NoError(t, err)

	var concurrent production.ServiceLine
	repo.between = func() {
		var err error
		concurrent, err = svc.AddService(ctx, production.AddServiceRequest{AreaID: area.ID, ServiceType: "rocada", Date: "2025-03-03", Quantity: 4})
		require.NoError(t, err)
	}
	late, err := svc.AddService(ctx, production.AddServiceRequest{AreaID: area.ID, ServiceType: "capina", Date: "2025-03-04", Quantity: 6})
	require.NoError(t, err)

	stored, err := store.Areas().GetByID(ctx, area.CompanyID, area.ID)
	require.NoError(t, err)
	require.Len(t, stored.Services, 3)

	require.Len(t, committer.state.Areas, 1)
	var cached []string
	for _, line := range committer.state.Areas[0].Services {
		cached = append(cached, line.ID)
	}
	assert.ElementsMatch(t, []string{first.ID, concurrent.ID, late.ID}, cached)

	repo.between = func() {
		require.NoError(t, svc.RemoveService(ctx, area.ID, first.ID))
	}
	require.NoError(t, svc.RemoveService(ctx, area.ID, late.ID))

	require.Len(t, committer.state.Areas[0].Services, 1)
	assert.Equal(t, concurrent.ID, committer.state.Areas[0].Services[0].ID)
}
