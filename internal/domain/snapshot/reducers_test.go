package snapshot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
)

func fixture() Snapshot {
	return Snapshot{
		CompanyID: "c1",
		Company:   company.Company{ID: "c1", Name: "Acme"},
		Employees: []employee.Employee{
			{ID: "e1", CompanyID: "c1", Name: "Ana", Status: employee.StatusActive},
			{ID: "e2", CompanyID: "c1", Name: "Bia", Status: employee.StatusInactive},
		},
		Attendance: []attendance.Record{
			{ID: "r1", CompanyID: "c1", EmployeeID: "e1", Date: "2025-01-02", Status: attendance.StatusPresent, Value: decimal.NewFromInt(100)},
			{ID: "r2", CompanyID: "c1", EmployeeID: "e1", Date: "2025-02-03", Status: attendance.StatusPartial, Value: decimal.NewFromInt(50)},
		},
		Areas: []production.Area{
			{ID: "a1", Name: "Praça", Services: []production.ServiceLine{{ID: "s1", AreaID: "a1", Quantity: 10}}},
			{ID: "a2", Name: "Rua A"},
		},
		Movements: []inventory.Movement{
			{ID: "m1", Type: inventory.MovementIn, Quantity: 5},
			{ID: "m2", Type: inventory.MovementOut, Quantity: 2},
		},
		CashIn:  []finance.Entry{{ID: "in1", Direction: finance.DirectionIn, Value: decimal.NewFromInt(10)}},
		CashOut: []finance.Entry{{ID: "out1", Direction: finance.DirectionOut, Value: decimal.NewFromInt(3)}},
		Goals:   []goal.MonthlyGoal{{Month: "2025-01", Production: 100}},
	}
}

func TestReducers_NeverMutateInput(t *testing.T) {
	reducers := map[string]Reducer{
		"upsert employee":   UpsertEmployee(employee.Employee{ID: "e1", Name: "Ana Paula"}),
		"upsert attendance": UpsertAttendance(attendance.Record{ID: "r1", Value: decimal.NewFromInt(1)}),
		"remove attendance": RemoveAttendance("r2"),
		"remove movement":   RemoveMovement("m1"),
		"add service line":  AddServiceLine(production.ServiceLine{ID: "s2", AreaID: "a1"}),
		"remove service":    RemoveServiceLine("a1", "s1"),
		"cash out":          AddCashEntry(finance.Entry{ID: "out2", Direction: finance.DirectionOut}),
		"remove cash":       RemoveCashEntry("in1"),
		"goal":              UpsertGoal(goal.MonthlyGoal{Month: "2025-01", Production: 1}),
		"company":           SetCompany(company.Company{ID: "c1", Name: "Renamed"}),
	}
	for name, reduce := range reducers {
		t.Run(name, func(t *testing.T) {
			before := fixture()
			pristine := fixture()

			after := reduce(before)

			assert.Empty(t, cmp.Diff(pristine, before), "input snapshot changed")
			assert.NotEmpty(t, cmp.Diff(before, after), "reducer had no effect")
		})
	}
}

func TestUpsertAttendance_ReplacesAndAppends(t *testing.T) {
	s := fixture()
	next := UpsertAttendance(
		attendance.Record{ID: "r1", Status: attendance.StatusAbsent},
		attendance.Record{ID: "r3", Status: attendance.StatusPresent},
	)(s)

	require.Len(t, next.Attendance, 3)
	assert.Equal(t, attendance.StatusAbsent, next.Attendance[0].Status)
	assert.Equal(t, "r3", next.Attendance[2].ID)
	assert.Equal(t, attendance.StatusPresent, s.Attendance[0].Status)
}

func TestServiceLineReducers_OnlyTouchTheirArea(t *testing.T) {
	// Two writers each read the area before the other's line existed.
	s := Chain(
		AddServiceLine(production.ServiceLine{ID: "s2", AreaID: "a1", Quantity: 5}),
		AddServiceLine(production.ServiceLine{ID: "s3", AreaID: "a1", Quantity: 7}),
	)(fixture())

	require.Len(t, s.Areas, 2)
	assert.Equal(t, "Praça", s.Areas[0].Name)
	require.Len(t, s.Areas[0].Services, 3)
	assert.Equal(t, "s3", s.Areas[0].Services[2].ID)
	assert.Empty(t, s.Areas[1].Services)

	s = RemoveServiceLine("a1", "s1")(s)
	require.Len(t, s.Areas[0].Services, 2)
	assert.Equal(t, "s2", s.Areas[0].Services[0].ID)

	untouched := AddServiceLine(production.ServiceLine{ID: "s9", AreaID: "missing"})(fixture())
	assert.Empty(t, cmp.Diff(fixture(), untouched))
}

func TestAddCashEntry_RoutesByDirection(t *testing.T) {
	s := AddCashEntry(finance.Entry{ID: "in2", Direction: finance.DirectionIn})(fixture())
	assert.Len(t, s.CashIn, 2)
	assert.Len(t, s.CashOut, 1)
}

func TestChain(t *testing.T) {
	s := Chain(
		RemoveAttendance("r1"),
		UpsertGoal(goal.MonthlyGoal{Month: "2025-02", Production: 50}),
	)(fixture())

	assert.Len(t, s.Attendance, 1)
	assert.Len(t, s.Goals, 2)
}

func TestSetCompany_OnlyTouchesListWhenLoaded(t *testing.T) {
	s := SetCompany(company.Company{ID: "c1", Name: "Renamed"})(fixture())
	assert.Equal(t, "Renamed", s.Company.Name)
	assert.Nil(t, s.Companies)

	global := fixture()
	global.Companies = []company.Company{{ID: "c1"}, {ID: "c2"}}
	s = SetCompany(company.Company{ID: "c2", Name: "Other"})(global)
	assert.Equal(t, "Acme", s.Company.Name)
	assert.Equal(t, "Other", s.Companies[1].Name)
}

func TestReadHelpers(t *testing.T) {
	s := fixture()

	e, ok := s.Employee("e2")
	require.True(t, ok)
	assert.Equal(t, "Bia", e.Name)
	_, ok = s.Employee("missing")
	assert.False(t, ok)

	assert.Len(t, s.ActiveEmployees(), 1)
	assert.Len(t, s.Exits(), 1)
	assert.Len(t, s.AttendanceFor("e1", "2025-01"), 1)
	assert.Len(t, s.AttendanceFor("e1", ""), 2)
}
