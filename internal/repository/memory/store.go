// Package memory is a map-backed test double for the PostgreSQL repositories.
// It keeps their semantics and is imported only from _test.go files.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
)

// Store is one in-memory database. All repositories built from the same Store
// share its data and its lock.
type Store struct {
	mu sync.Mutex

	companies  map[string]company.Company
	users      map[string]user.User
	tokens     map[string]refreshToken
	employees  map[string]employee.Employee
	attendance map[string]attendance.Record
	areas      map[string]production.Area
	goals      map[string]goal.MonthlyGoal
	entries    map[string]finance.Entry
	items      map[string]inventory.Item
	movements  map[string]inventory.Movement

	// FailClaimAfter, when positive, makes ClaimForPayment fail once that
	// many records have been claimed in total. Used to exercise the
	// settlement fallback.
	FailClaimAfter int
	claimed        int

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		companies:  make(map[string]company.Company),
		users:      make(map[string]user.User),
		tokens:     make(map[string]refreshToken),
		employees:  make(map[string]employee.Employee),
		attendance: make(map[string]attendance.Record),
		areas:      make(map[string]production.Area),
		goals:      make(map[string]goal.MonthlyGoal),
		entries:    make(map[string]finance.Entry),
		items:      make(map[string]inventory.Item),
		movements:  make(map[string]inventory.Movement),
		now:        time.Now,
	}
}

func newID() string {
	return uuid.NewString()
}

func sortedValues[T any](m map[string]T, filter func(T) bool, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if filter(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func cloneMap[T any](m map[string]T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Transactor returns a database.Transactor whose rollback restores the store
// to its state at the start of the outermost WithinTx. Concurrent writers
// outside the transaction are lost on rollback; tests must not rely on that.
func (s *Store) Transactor() database.Transactor {
	return &transactor{s: s}
}

type transactor struct {
	s *Store
}

type txKey struct{}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.mu.Lock()
	saved := t.s.tables()
	claimed := t.s.claimed
	t.s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.s.mu.Lock()
		t.s.restore(saved)
		t.s.claimed = claimed
		t.s.mu.Unlock()
		return err
	}
	return nil
}

type tables struct {
	companies  map[string]company.Company
	users      map[string]user.User
	tokens     map[string]refreshToken
	employees  map[string]employee.Employee
	attendance map[string]attendance.Record
	areas      map[string]production.Area
	goals      map[string]goal.MonthlyGoal
	entries    map[string]finance.Entry
	items      map[string]inventory.Item
	movements  map[string]inventory.Movement
}

// tables copies every table. Callers hold s.mu.
func (s *Store) tables() tables {
	return tables{
		companies:  cloneMap(s.companies),
		users:      cloneMap(s.users),
		tokens:     cloneMap(s.tokens),
		employees:  cloneMap(s.employees),
		attendance: cloneMap(s.attendance),
		areas:      cloneMap(s.areas),
		goals:      cloneMap(s.goals),
		entries:    cloneMap(s.entries),
		items:      cloneMap(s.items),
		movements:  cloneMap(s.movements),
	}
}

func (s *Store) restore(t tables) {
	s.companies, s.users, s.tokens = t.companies, t.users, t.tokens
	s.employees, s.attendance, s.areas = t.employees, t.attendance, t.areas
	s.goals, s.entries = t.goals, t.entries
	s.items, s.movements = t.items, t.movements
}
