package attendance

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/repository/memory"
)

type recordingCommitter struct {
	mu    sync.Mutex
	state snapshot.Snapshot
	calls int
}

func (c *recordingCommitter) Commit(_ context.Context, _ string, reduce snapshot.Reducer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = reduce(c.state)
	c.calls++
}

func newTestService(t *testing.T) (attendance.AttendanceService, *memory.Store, *recordingCommitter, context.Context, string) {
	t.Helper()
	store := memory.NewStore()
	ctx := jwt.WithCompany(context.Background(), "c1")

	emp := dailyEmployee()
	emp.ID = ""
	created, err := store.Employees().Create(ctx, emp)
	require.NoError(t, err)

	committer := &recordingCommitter{}
	svc := NewAttendanceService(store.Attendance(), store.Employees(), committer, nil)
	return svc, store, committer, ctx, created.ID
}

func TestAttendanceService_ToggleCycle(t *testing.T) {
	svc, _, committer, ctx, employeeID := newTestService(t)
	req := attendance.ToggleRequest{EmployeeID: employeeID, Date: "2025-03-10"}

	want := []struct {
		action string
		status attendance.VirtualStatus
	}{
		{"create", attendance.VirtualPresent},
		{"update", attendance.VirtualPartial},
		{"update", attendance.VirtualAbsent},
	}
	for _, w := range want {
		resp, err := svc.Toggle(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, w.action, resp.Action)
		require.NotNil(t, resp.Record)
		assert.Equal(t, w.status, resp.Record.VirtualStatus)
		require.Len(t, committer.state.Attendance, 1)
		assert.Equal(t, w.status, committer.state.Attendance[0].VirtualStatus())
	}

	resp, err := svc.Toggle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "delete", resp.Action)
	assert.Nil(t, resp.Record)
	assert.Empty(t, committer.state.Attendance)
	assert.Equal(t, 4, committer.calls)
}

func TestAttendanceService_SavePointThenEdit(t *testing.T) {
	svc, store, _, ctx, employeeID := newTestService(t)

	saved, err := svc.SavePoint(ctx, attendance.SavePointRequest{
		EmployeeID: employeeID,
		Date:       "2025-03-11",
		PointForm:  attendance.PointForm{Status: attendance.VirtualVacation, Note: "férias"},
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.VirtualVacation, saved.VirtualStatus)
	assert.Equal(t, "FE", saved.Shorthand)

	again, err := svc.SavePoint(ctx, attendance.SavePointRequest{
		EmployeeID: employeeID,
		Date:       "2025-03-11",
		PointForm:  attendance.PointForm{Status: attendance.VirtualPresent, ClockIn: ptr("08:00")},
	})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)
	assert.Equal(t, attendance.VirtualPresent, again.VirtualStatus)

	edited, err := svc.EditValues(ctx, attendance.EditValuesRequest{ID: saved.ID, Value: "oops", Discount: "10", Bonus: "5,5"})
	require.NoError(t, err)
	assert.True(t, edited.Value.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "145.50", edited.Net.StringFixed(2))

	records, err := store.Attendance().List(ctx, "c1", attendance.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAttendanceService_ValidationHappensBeforeLookup(t *testing.T) {
	svc, _, committer, ctx, _ := newTestService(t)

	_, err := svc.Toggle(ctx, attendance.ToggleRequest{EmployeeID: "x", Date: "10/03/2025"})
	assert.Error(t, err)
	assert.Zero(t, committer.calls)
}

func TestAttendanceService_OtherCompanyCannotToggle(t *testing.T) {
	svc, _, _, _, employeeID := newTestService(t)
	other := jwt.WithCompany(context.Background(), "c2")

	_, err := svc.Toggle(other, attendance.ToggleRequest{EmployeeID: employeeID, Date: "2025-03-10"})
	assert.Error(t, err)
}
