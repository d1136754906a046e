package postgresql_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
	"github.com/gestao-urbana/backoffice-go/internal/repository/postgresql"
)

type fixture struct {
	company  company.Company
	employee employee.Employee
}

func seed(t *testing.T, ctx context.Context, db *database.DB) fixture {
	t.Helper()
	c, err := postgresql.NewCompanyRepository(db).Create(ctx, company.Company{
		Name:              "Limpeza Norte",
		FinanceCategories: []string{"Folha", "Combustível"},
	})
	require.NoError(t, err)

	e, err := postgresql.NewEmployeeRepository(db).Create(ctx, employee.Employee{
		CompanyID:       c.ID,
		Name:            "Maria",
		Role:            "Gari",
		PaymentModality: employee.ModalityDaily,
		DefaultValue:    decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	return fixture{company: c, employee: e}
}

func TestAttendanceRepository_LeaveRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seed(t, ctx, db)
	repo := postgresql.NewAttendanceRepository(db)

	created, err := repo.Create(ctx, attendance.Record{
		CompanyID:  f.company.ID,
		EmployeeID: f.employee.ID,
		Date:       "2025-03-10",
		Status:     attendance.StatusAbsent,
		Value:      decimal.NewFromInt(120),
		LeaveKind:  attendance.LeaveMedicalCertificate,
		Note:       "consulta",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", created.Date)
	assert.Equal(t, attendance.PaymentPending, created.PaymentStatus)
	assert.Equal(t, attendance.VirtualMedicalCertificate, created.VirtualStatus())
	assert.Equal(t, "consulta", created.Note)

	var stored string
	require.NoError(t, db.QueryRow(ctx, `SELECT discount_observation FROM attendance_records WHERE id = $1`, created.ID).Scan(&stored))
	assert.Equal(t, "[AT] consulta", stored)

	_, err = repo.Create(ctx, attendance.Record{
		CompanyID: f.company.ID, EmployeeID: f.employee.ID, Date: "2025-03-10", Status: attendance.StatusPresent,
	})
	assert.ErrorIs(t, err, attendance.ErrRecordExists)

	got, err := repo.GetByEmployeeDate(ctx, f.company.ID, f.employee.ID, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByEmployeeDate(ctx, f.company.ID, f.employee.ID, "2025-03-11")
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestAttendanceRepository_ClaimForPaymentIsExclusive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seed(t, ctx, db)
	repo := postgresql.NewAttendanceRepository(db)

	var ids []string
	for _, day := range []string{"2025-03-10", "2025-03-11"} {
		rec, err := repo.Create(ctx, attendance.Record{
			CompanyID: f.company.ID, EmployeeID: f.employee.ID, Date: day,
			Status: attendance.StatusPresent, Value: decimal.NewFromInt(120),
		})
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	claimed, err := repo.ClaimForPayment(ctx, f.company.ID, ids)
	require.NoError(t, err)
	assert.Len(t, claimed, 2)

	again, err := repo.ClaimForPayment(ctx, f.company.ID, ids)
	require.NoError(t, err)
	assert.Empty(t, again)

	pending, err := repo.List(ctx, f.company.ID, attendance.ListFilter{EmployeeID: f.employee.ID, PendingOnly: true})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEmployeeRepository_PartialUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seed(t, ctx, db)
	repo := postgresql.NewEmployeeRepository(db)

	name := "Maria Souza"
	updated, err := repo.Update(ctx, f.company.ID, employee.UpdateEmployeeRequest{ID: f.employee.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", updated.Name)
	assert.Equal(t, "Gari", updated.Role)
	assert.True(t, updated.DefaultValue.Equal(decimal.NewFromInt(120)))

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000", f.employee.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGoalRepository_Upsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seed(t, ctx, db)
	repo := postgresql.NewGoalRepository(db)

	_, err := repo.Upsert(ctx, goal.MonthlyGoal{CompanyID: f.company.ID, Month: "2025-03", Production: 100, Revenue: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, goal.MonthlyGoal{CompanyID: f.company.ID, Month: "2025-03", Production: 150, Revenue: decimal.NewFromInt(6000)})
	require.NoError(t, err)

	goals, err := repo.List(ctx, f.company.ID)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, 150.0, goals[0].Production)
}

func TestInventoryRepository_MovementCarriesItemName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seed(t, ctx, db)
	items := postgresql.NewItemRepository(db)
	movements := postgresql.NewMovementRepository(db)

	item, err := items.Create(ctx, inventory.Item{CompanyID: f.company.ID, Name: "Saco de lixo", Unit: "un", CurrentQty: 10, MinQty: 2})
	require.NoError(t, err)

	m, err := movements.Create(ctx, inventory.Movement{
		CompanyID: f.company.ID, ItemID: item.ID, Type: inventory.MovementOut, Quantity: 3, Date: "2025-03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "Saco de lixo", m.ItemName)
	assert.Equal(t, "2025-03-10", m.Date)

	require.NoError(t, movements.Delete(ctx, f.company.ID, m.ID))
	assert.ErrorIs(t, movements.Delete(ctx, f.company.ID, m.ID), inventory.ErrMovementNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seed(t, ctx, db)
	repo := postgresql.NewUserRepository(db)

	u := user.User{CompanyID: &f.company.ID, Name: "Ana", Email: "ana@example.com", Role: user.RoleManager,
		Permissions: user.Permissions{user.CapabilitySettings: true}}
	created, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.True(t, created.Permissions[user.CapabilitySettings])

	_, err = repo.Create(ctx, u)
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}
