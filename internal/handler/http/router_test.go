package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/payroll"
	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/middleware"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/sse"
	"github.com/gestao-urbana/backoffice-go/internal/repository/memory"
	assistantService "github.com/gestao-urbana/backoffice-go/internal/service/assistant"
	attendanceService "github.com/gestao-urbana/backoffice-go/internal/service/attendance"
	authService "github.com/gestao-urbana/backoffice-go/internal/service/auth"
	companyService "github.com/gestao-urbana/backoffice-go/internal/service/company"
	dashboardService "github.com/gestao-urbana/backoffice-go/internal/service/dashboard"
	employeeService "github.com/gestao-urbana/backoffice-go/internal/service/employee"
	financeService "github.com/gestao-urbana/backoffice-go/internal/service/finance"
	goalService "github.com/gestao-urbana/backoffice-go/internal/service/goal"
	inventoryService "github.com/gestao-urbana/backoffice-go/internal/service/inventory"
	payrollService "github.com/gestao-urbana/backoffice-go/internal/service/payroll"
	productionService "github.com/gestao-urbana/backoffice-go/internal/service/production"
	reportService "github.com/gestao-urbana/backoffice-go/internal/service/report"
	snapshotService "github.com/gestao-urbana/backoffice-go/internal/service/snapshot"
	userService "github.com/gestao-urbana/backoffice-go/internal/service/user"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type routerFixture struct {
	store     *memory.Store
	jwt       jwt.Service
	router    http.Handler
	companyID string
	owner     user.User
	operator  user.User
	admin     user.User
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	return newRouterFixtureWith(t, RouterOptions{})
}

func newRouterFixtureWith(t *testing.T, opts RouterOptions) routerFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	comp, err := store.Companies().Create(ctx, company.Company{Name: "Verde Urbano"})
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)

	newUser := func(email string, role user.Role, companyID *string) user.User {
		u, err := store.Users().Create(ctx, user.User{
			CompanyID:    companyID,
			Name:         email,
			Email:        email,
			PasswordHash: &hashed,
			Role:         role,
		})
		require.NoError(t, err)
		return u
	}
	owner := newUser("dona@verde.test", user.RoleOwner, &comp.ID)
	operator := newUser("campo@verde.test", user.RoleOperator, &comp.ID)
	admin := newUser("ops@plataforma.test", user.RoleAdmin, nil)

	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour, 24*time.Hour, false)
	hub := sse.NewHub()
	snapshots := snapshotService.NewSnapshotService(snapshotService.Sources{
		Companies:  store.Companies(),
		Employees:  store.Employees(),
		Attendance: store.Attendance(),
		Areas:      store.Areas(),
		Items:      store.Items(),
		Movements:  store.Movements(),
		Entries:    store.Entries(),
		Goals:      store.Goals(),
	}, nil, hub, nil)
	tx := store.Transactor()

	dashboards := dashboardService.NewDashboardService(snapshots, nil)
	handlers := Handlers{
		Auth: NewAuthHandler(jwtService,
			authService.NewAuthService(store.Users(), store.RefreshTokens(), jwtService, tx, nil),
			nil, "http://localhost:3000", false),
		Company:    NewCompanyHandler(companyService.NewCompanyService(store.Companies(), store.Users(), tx, snapshots, nil)),
		User:       NewUserHandler(userService.NewUserService(store.Users(), nil)),
		Employee:   NewEmployeeHandler(employeeService.NewEmployeeService(store.Employees(), snapshots, nil)),
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(store.Attendance(), store.Employees(), snapshots, nil)),
		Payroll: NewPayrollHandler(payrollService.NewPayrollService(
			store.Attendance(), store.Employees(), store.Entries(), tx, nil, snapshots, nil)),
		Production: NewProductionHandler(
			productionService.NewProductionService(store.Areas(), store.Companies(), store.Employees(), snapshots, nil),
			goalService.NewGoalService(store.Goals(), snapshots)),
		Finance:   NewFinanceHandler(financeService.NewFinanceService(store.Entries(), store.Companies(), snapshots, nil)),
		Inventory: NewInventoryHandler(inventoryService.NewInventoryService(store.Items(), store.Movements(), tx, nil, snapshots, nil)),
		Dashboard: NewDashboardHandler(dashboards, assistantService.NewAssistantService(snapshots, nil, nil)),
		Report:    NewReportHandler(reportService.NewReportService(snapshots, nil)),
		Snapshot:  NewSnapshotHandler(snapshots, jwtService, hub),
	}

	return routerFixture{
		store:     store,
		jwt:       jwtService,
		router:    NewRouter(nil, jwtService, store.Users(), handlers, opts),
		companyID: comp.ID,
		owner:     owner,
		operator:  operator,
		admin:     admin,
	}
}

func (f routerFixture) do(t *testing.T, method, path string, u *user.User, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		token, _, err := f.jwt.GenerateAccessToken(*u)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var resp response.Response
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func TestRouter_Login(t *testing.T) {
	f := newRouterFixture(t)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"valid credentials", map[string]string{"email": "dona@verde.test", "password": "secret123"}, http.StatusCreated},
		{"wrong password", map[string]string{"email": "dona@verde.test", "password": "nope-nope"}, http.StatusUnauthorized},
		{"missing email", map[string]string{"password": "secret123"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := f.do(t, http.MethodPost, "/api/v1/auth/login", nil, tt.body, nil)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusCreated {
				assert.True(t, resp.Success)
				data, ok := resp.Data.(map[string]interface{})
				require.True(t, ok)
				assert.NotEmpty(t, data["access_token"])
				assert.Contains(t, rec.Header().Get("Set-Cookie"), "refresh_token=")
			}
		})
	}
}

func TestRouter_AuthRateLimitUsesEnvelope(t *testing.T) {
	f := newRouterFixtureWith(t, RouterOptions{AuthRateLimit: 2})
	creds := map[string]string{"email": "dona@verde.test", "password": "nope-nope"}

	for i := 0; i < 2; i++ {
		rec, _ := f.do(t, http.MethodPost, "/api/v1/auth/login", nil, creds, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec, resp := f.do(t, http.MethodPost, "/api/v1/auth/login", nil, creds, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TOO_MANY_REQUESTS", resp.Error.Code)
}

func TestRouter_RequiresAccessToken(t *testing.T) {
	f := newRouterFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/employees", nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	refresh, _, err := f.jwt.GenerateRefreshToken(f.owner.ID)
	require.NoError(t, err)
	rec, _ = f.do(t, http.MethodGet, "/api/v1/employees", nil, nil, map[string]string{"Authorization": "Bearer " + refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/employees", &f.owner, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, resp.Success)
}

func TestRouter_CapabilityGate(t *testing.T) {
	f := newRouterFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/finance/entries", &f.operator, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/users", &f.operator, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Grants are read per request, no new token needed.
	require.NoError(t, f.store.Users().UpdateAccess(context.Background(), f.companyID, f.operator.ID,
		user.RoleOperator, user.Permissions{user.CapabilityFinance: true}))
	rec, _ = f.do(t, http.MethodGet, "/api/v1/finance/entries", &f.operator, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRouter_CompanyScope(t *testing.T) {
	f := newRouterFixture(t)
	scoped := map[string]string{middleware.CompanyHeader: f.companyID}

	rec, _ := f.do(t, http.MethodGet, "/api/v1/employees", &f.admin, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "global caller must pick a company")

	rec, _ = f.do(t, http.MethodGet, "/api/v1/employees", &f.admin, nil, scoped)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = f.do(t, http.MethodGet, "/api/v1/employees", &f.owner, nil, map[string]string{middleware.CompanyHeader: "other-company"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/companies", &f.owner, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/companies", &f.admin, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Session(t *testing.T) {
	f := newRouterFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/session", &f.operator, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"production", "inventory"}, data["sections"])
}

func TestHandleError_SettlementIntegrity(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &payroll.SettlementIntegrityError{
		CashOutID:       "cash-1",
		FailedRecordIDs: []string{"r2", "r3"},
		Cause:           errors.New("connection reset"),
	}
	response.HandleError(rec, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SETTLEMENT_INTEGRITY", resp.Error.Code)
	assert.Equal(t, "cash-1", resp.Error.Details["cash_out_id"])
	assert.Equal(t, "r2,r3", resp.Error.Details["failed_record_ids"])
}

func TestHandleError_InformationalSettlementConflicts(t *testing.T) {
	rec := httptest.NewRecorder()
	response.HandleError(rec, fmt.Errorf("settle: %w", payroll.ErrInformationalSettlement))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "CLT")
}
