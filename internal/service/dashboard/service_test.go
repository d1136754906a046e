package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-urbana/backoffice-go/internal/domain/dashboard"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type staticSnapshots struct {
	snapshot.NopCommitter
	snap snapshot.Snapshot
	err  error
}

func (s staticSnapshots) Current(context.Context) (snapshot.Snapshot, error) {
	return s.snap, s.err
}

func (s staticSnapshots) Load(context.Context, string, bool) (snapshot.Snapshot, error) {
	return s.snap, s.err
}

func newService(src staticSnapshots) *DashboardServiceImpl {
	svc := NewDashboardService(src, nil).(*DashboardServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestOverview_Defaults(t *testing.T) {
	snap := snapshot.Snapshot{
		CompanyID: "c1",
		Areas:     []production.Area{{Services: []production.ServiceLine{line("capina", "2024-12-03", 40, 80)}}},
	}
	out, err := newService(staticSnapshots{snap: snap}).Overview(context.Background(), dashboard.OverviewRequest{})
	require.NoError(t, err)

	require.Len(t, out.Series, dashboard.DefaultRangeMonths)
	assert.Equal(t, "2025-01", out.Series[5].Bucket.Key)
	assert.Equal(t, 40.0, out.Series[4].Production)
	require.NotNil(t, out.Summary)
	assert.Equal(t, 1, out.Summary.TotalAreas)
	assert.Equal(t, map[string]float64{"capina": 40}, out.ProductionByType)
	assert.Empty(t, out.Warnings)
}

func TestOverview_FailedSectionBecomesWarning(t *testing.T) {
	out, err := newService(staticSnapshots{}).Overview(context.Background(), dashboard.OverviewRequest{End: "2025-01", Months: 60})
	require.NoError(t, err)

	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "series", out.Warnings[0].Section)
	assert.Empty(t, out.Series)
	assert.NotNil(t, out.Summary)
	assert.NotNil(t, out.ProductionByType)
}

func TestOverview_InvalidEnd(t *testing.T) {
	_, err := newService(staticSnapshots{}).Overview(context.Background(), dashboard.OverviewRequest{End: "01/2025"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestOverview_SnapshotError(t *testing.T) {
	boom := errors.New("store unavailable")
	_, err := newService(staticSnapshots{err: boom}).Overview(context.Background(), dashboard.OverviewRequest{})
	assert.ErrorIs(t, err, boom)
}
