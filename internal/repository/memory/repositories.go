package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/auth"
	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
)

var errClaimInterrupted = errors.New("memory: claim interrupted")

// ---- companies

type CompanyRepository struct{ s *Store }

func (s *Store) Companies() *CompanyRepository { return &CompanyRepository{s} }

func (r *CompanyRepository) List(ctx context.Context) ([]company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.companies, func(company.Company) bool { return true },
		func(a, b company.Company) bool { return a.Name < b.Name }), nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c company.Company) (company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = newID()
	}
	c.CreatedAt, c.UpdatedAt = r.s.now(), r.s.now()
	r.s.companies[c.ID] = c
	return c, nil
}

func (r *CompanyRepository) UpdateSettings(ctx context.Context, id string, req company.UpdateSettingsRequest) (company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	c = req.Apply(c)
	c.UpdatedAt = r.s.now()
	r.s.companies[id] = c
	return c, nil
}

// ---- users

type UserRepository struct{ s *Store }

func (s *Store) Users() *UserRepository { return &UserRepository{s} }

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) ListByCompany(ctx context.Context, companyID string) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.users,
		func(u user.User) bool { return u.CompanyID != nil && *u.CompanyID == companyID },
		func(a, b user.User) bool { return a.Name < b.Name }), nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Permissions == nil {
		u.Permissions = user.Permissions{}
	}
	u.CreatedAt, u.UpdatedAt = r.s.now(), r.s.now()
	r.s.users[u.ID] = u
	return u, nil
}

func (r *UserRepository) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if u.Email == email {
			provider := "google"
			u.OAuthProvider, u.OAuthProviderID = &provider, &googleID
			r.s.users[id] = u
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepository) UpdateAccess(ctx context.Context, companyID, userID string, role user.Role, perms user.Permissions) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok || u.CompanyID == nil || *u.CompanyID != companyID {
		return user.ErrUserNotFound
	}
	u.Role, u.Permissions = role, perms
	r.s.users[userID] = u
	return nil
}

// ---- refresh tokens

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revoked   bool
}

type RefreshTokenRepository struct{ s *Store }

func (s *Store) RefreshTokens() *RefreshTokenRepository { return &RefreshTokenRepository{s} }

func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *RefreshTokenRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, _ auth.SessionTrackingRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tokens[tokenHash(token)] = refreshToken{userID: userID, expiresAt: time.Unix(expiresAt, 0)}
	return nil
}

func (r *RefreshTokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[tokenHash(token)]
	if !ok {
		return "", true, nil
	}
	return t.userID, t.revoked || !t.expiresAt.After(r.s.now()), nil
}

func (r *RefreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h := tokenHash(token)
	if t, ok := r.s.tokens[h]; ok {
		t.revoked = true
		r.s.tokens[h] = t
	}
	return nil
}

// ---- employees

type EmployeeRepository struct{ s *Store }

func (s *Store) Employees() *EmployeeRepository { return &EmployeeRepository{s} }

func (r *EmployeeRepository) GetByID(ctx context.Context, companyID, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepository) List(ctx context.Context, companyID string) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.employees,
		func(e employee.Employee) bool { return e.CompanyID == companyID },
		func(a, b employee.Employee) bool { return a.Name < b.Name }), nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Status == "" {
		e.Status = employee.StatusActive
	}
	e.CreatedAt, e.UpdatedAt = r.s.now(), r.s.now()
	r.s.employees[e.ID] = e
	return e, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, companyID string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[req.ID]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e = req.Apply(e)
	e.UpdatedAt = r.s.now()
	r.s.employees[e.ID] = e
	return e, nil
}

func (r *EmployeeRepository) SetStatus(ctx context.Context, companyID, id string, status employee.Status) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.Status = status
	r.s.employees[id] = e
	return e, nil
}

// ---- attendance

type AttendanceRepository struct{ s *Store }

func (s *Store) Attendance() *AttendanceRepository { return &AttendanceRepository{s} }

func (r *AttendanceRepository) GetByID(ctx context.Context, companyID, id string) (attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.attendance[id]
	if !ok || rec.CompanyID != companyID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (r *AttendanceRepository) GetByEmployeeDate(ctx context.Context, companyID, employeeID, date string) (attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.attendance {
		if rec.CompanyID == companyID && rec.EmployeeID == employeeID && rec.Date == date {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (r *AttendanceRepository) List(ctx context.Context, companyID string, f attendance.ListFilter) ([]attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.attendance, func(rec attendance.Record) bool {
		switch {
		case rec.CompanyID != companyID:
			return false
		case f.EmployeeID != "" && rec.EmployeeID != f.EmployeeID:
			return false
		case f.From != "" && rec.Date < f.From:
			return false
		case f.To != "" && rec.Date > f.To:
			return false
		case f.PendingOnly && rec.IsPaid():
			return false
		}
		return true
	}, func(a, b attendance.Record) bool {
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.EmployeeID < b.EmployeeID
	}), nil
}

func (r *AttendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if _, err := attendance.EncodeLeave(rec.LeaveKind, rec.Note); err != nil {
		return attendance.Record{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.attendance {
		if other.CompanyID == rec.CompanyID && other.EmployeeID == rec.EmployeeID && other.Date == rec.Date {
			return attendance.Record{}, attendance.ErrRecordExists
		}
	}
	if rec.ID == "" {
		rec.ID = newID()
	}
	if rec.PaymentStatus == "" {
		rec.PaymentStatus = attendance.PaymentPending
	}
	rec.CreatedAt, rec.UpdatedAt = r.s.now(), r.s.now()
	r.s.attendance[rec.ID] = rec
	return rec, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, companyID, id string, patch attendance.Patch) (attendance.Record, error) {
	if patch.Observation != nil {
		if _, err := attendance.EncodeLeave(patch.Observation.Leave, patch.Observation.Note); err != nil {
			return attendance.Record{}, err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.attendance[id]
	if !ok || rec.CompanyID != companyID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	rec = patch.Apply(rec)
	rec.UpdatedAt = r.s.now()
	r.s.attendance[id] = rec
	return rec, nil
}

func (r *AttendanceRepository) Delete(ctx context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.attendance[id]
	if !ok || rec.CompanyID != companyID {
		return attendance.ErrRecordNotFound
	}
	delete(r.s.attendance, id)
	return nil
}

func (r *AttendanceRepository) ClaimForPayment(ctx context.Context, companyID string, ids []string) ([]attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var claimed []attendance.Record
	for _, id := range ids {
		if r.s.FailClaimAfter > 0 && r.s.claimed >= r.s.FailClaimAfter {
			return claimed, errClaimInterrupted
		}
		rec, ok := r.s.attendance[id]
		if !ok || rec.CompanyID != companyID || rec.IsPaid() {
			continue
		}
		rec.PaymentStatus = attendance.PaymentPaid
		rec.UpdatedAt = r.s.now()
		r.s.attendance[id] = rec
		r.s.claimed++
		claimed = append(claimed, rec)
	}
	return claimed, nil
}

// ---- production

type AreaRepository struct{ s *Store }

func (s *Store) Areas() *AreaRepository { return &AreaRepository{s} }

func copyArea(a production.Area) production.Area {
	a.Services = append([]production.ServiceLine{}, a.Services...)
	return a
}

func (r *AreaRepository) List(ctx context.Context, companyID string) ([]production.Area, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	areas := sortedValues(r.s.areas,
		func(a production.Area) bool { return a.CompanyID == companyID },
		func(a, b production.Area) bool {
			if a.StartDate != b.StartDate {
				return a.StartDate > b.StartDate
			}
			return a.Name < b.Name
		})
	for i := range areas {
		areas[i] = copyArea(areas[i])
	}
	return areas, nil
}

func (r *AreaRepository) GetByID(ctx context.Context, companyID, id string) (production.Area, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.areas[id]
	if !ok || a.CompanyID != companyID {
		return production.Area{}, production.ErrAreaNotFound
	}
	return copyArea(a), nil
}

func (r *AreaRepository) Create(ctx context.Context, a production.Area) (production.Area, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Status == "" {
		a.Status = production.AreaExecuting
	}
	a.Services = []production.ServiceLine{}
	a.CreatedAt = r.s.now()
	r.s.areas[a.ID] = a
	return copyArea(a), nil
}

func (r *AreaRepository) Update(ctx context.Context, companyID string, req production.UpdateAreaRequest) (production.Area, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.areas[req.ID]
	if !ok || a.CompanyID != companyID {
		return production.Area{}, production.ErrAreaNotFound
	}
	a = req.Apply(a)
	r.s.areas[a.ID] = a
	return copyArea(a), nil
}

func (r *AreaRepository) Finish(ctx context.Context, companyID, id, endDate, endReference string) (production.Area, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.areas[id]
	if !ok || a.CompanyID != companyID {
		return production.Area{}, production.ErrAreaNotFound
	}
	a.Status = production.AreaFinished
	a.EndDate = &endDate
	a.EndReference = endReference
	r.s.areas[id] = a
	return copyArea(a), nil
}

func (r *AreaRepository) AddService(ctx context.Context, line production.ServiceLine) (production.ServiceLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.areas[line.AreaID]
	if !ok || a.CompanyID != line.CompanyID {
		return production.ServiceLine{}, production.ErrAreaNotFound
	}
	if line.ID == "" {
		line.ID = newID()
	}
	a.Services = append(append([]production.ServiceLine{}, a.Services...), line)
	r.s.areas[a.ID] = a
	return line, nil
}

func (r *AreaRepository) DeleteService(ctx context.Context, companyID, areaID, serviceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.areas[areaID]
	if !ok || a.CompanyID != companyID {
		return production.ErrAreaNotFound
	}
	kept := make([]production.ServiceLine, 0, len(a.Services))
	for _, s := range a.Services {
		if s.ID != serviceID {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(a.Services) {
		return production.ErrServiceNotFound
	}
	a.Services = kept
	r.s.areas[areaID] = a
	return nil
}

// ---- goals

type GoalRepository struct{ s *Store }

func (s *Store) Goals() *GoalRepository { return &GoalRepository{s} }

func (r *GoalRepository) List(ctx context.Context, companyID string) ([]goal.MonthlyGoal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.goals,
		func(g goal.MonthlyGoal) bool { return g.CompanyID == companyID },
		func(a, b goal.MonthlyGoal) bool { return a.Month < b.Month }), nil
}

func (r *GoalRepository) Upsert(ctx context.Context, g goal.MonthlyGoal) (goal.MonthlyGoal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.goals[g.CompanyID+"/"+g.Month] = g
	return g, nil
}

// ---- finance

type EntryRepository struct{ s *Store }

func (s *Store) Entries() *EntryRepository { return &EntryRepository{s} }

func (r *EntryRepository) Create(ctx context.Context, e finance.Entry) (finance.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	e.CreatedAt = r.s.now()
	r.s.entries[e.ID] = e
	return e, nil
}

func (r *EntryRepository) GetByID(ctx context.Context, companyID, id string) (finance.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok || e.CompanyID != companyID {
		return finance.Entry{}, finance.ErrEntryNotFound
	}
	return e, nil
}

func (r *EntryRepository) List(ctx context.Context, companyID string, direction finance.Direction) ([]finance.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.entries,
		func(e finance.Entry) bool {
			return e.CompanyID == companyID && (direction == "" || e.Direction == direction)
		},
		func(a, b finance.Entry) bool {
			if a.Date != b.Date {
				return a.Date > b.Date
			}
			return a.ID < b.ID
		}), nil
}

func (r *EntryRepository) Delete(ctx context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok || e.CompanyID != companyID {
		return finance.ErrEntryNotFound
	}
	delete(r.s.entries, id)
	return nil
}

// ---- inventory

type ItemRepository struct{ s *Store }

func (s *Store) Items() *ItemRepository { return &ItemRepository{s} }

func (r *ItemRepository) List(ctx context.Context, companyID string) ([]inventory.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.items,
		func(i inventory.Item) bool { return i.CompanyID == companyID },
		func(a, b inventory.Item) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }), nil
}

func (r *ItemRepository) GetByID(ctx context.Context, companyID, id string) (inventory.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.items[id]
	if !ok || i.CompanyID != companyID {
		return inventory.Item{}, inventory.ErrItemNotFound
	}
	return i, nil
}

func (r *ItemRepository) Create(ctx context.Context, i inventory.Item) (inventory.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if i.ID == "" {
		i.ID = newID()
	}
	i.CreatedAt = r.s.now()
	r.s.items[i.ID] = i
	return i, nil
}

func (r *ItemRepository) Update(ctx context.Context, companyID string, req inventory.UpdateItemRequest) (inventory.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.items[req.ID]
	if !ok || i.CompanyID != companyID {
		return inventory.Item{}, inventory.ErrItemNotFound
	}
	i = req.Apply(i)
	r.s.items[i.ID] = i
	return i, nil
}

func (r *ItemRepository) SetQuantity(ctx context.Context, companyID, id string, qty float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.items[id]
	if !ok || i.CompanyID != companyID {
		return inventory.ErrItemNotFound
	}
	i.CurrentQty = qty
	r.s.items[id] = i
	return nil
}

type MovementRepository struct{ s *Store }

func (s *Store) Movements() *MovementRepository { return &MovementRepository{s} }

func (r *MovementRepository) withName(m inventory.Movement) inventory.Movement {
	if it, ok := r.s.items[m.ItemID]; ok {
		m.ItemName = it.Name
	}
	return m
}

func (r *MovementRepository) List(ctx context.Context, companyID string) ([]inventory.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := sortedValues(r.s.movements,
		func(m inventory.Movement) bool { return m.CompanyID == companyID },
		func(a, b inventory.Movement) bool {
			if a.Date != b.Date {
				return a.Date > b.Date
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
	for i := range out {
		out[i] = r.withName(out[i])
	}
	return out, nil
}

func (r *MovementRepository) GetByID(ctx context.Context, companyID, id string) (inventory.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok || m.CompanyID != companyID {
		return inventory.Movement{}, inventory.ErrMovementNotFound
	}
	return r.withName(m), nil
}

func (r *MovementRepository) Create(ctx context.Context, m inventory.Movement) (inventory.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[m.ItemID]; !ok {
		return inventory.Movement{}, inventory.ErrItemNotFound
	}
	if m.ID == "" {
		m.ID = newID()
	}
	m.CreatedAt = r.s.now()
	r.s.movements[m.ID] = m
	return r.withName(m), nil
}

func (r *MovementRepository) Delete(ctx context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok || m.CompanyID != companyID {
		return inventory.ErrMovementNotFound
	}
	delete(r.s.movements, id)
	return nil
}
