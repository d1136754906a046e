// Package snapshot models the company dataset a client works against.
//
// A Snapshot is a value. It is never modified after construction: writes are
// expressed as Reducers that return a new Snapshot, and readers can share a
// Snapshot across goroutines without locking. Reducers copy only the slice
// they change and share the rest.
package snapshot

import (
	"time"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
)

type Snapshot struct {
	CompanyID  string               `json:"company_id"`
	Version    int64                `json:"version"`
	FetchedAt  time.Time            `json:"fetched_at"`
	Company    company.Company      `json:"company"`
	Companies  []company.Company    `json:"companies,omitempty"`
	Employees  []employee.Employee  `json:"employees"`
	Attendance []attendance.Record  `json:"attendance"`
	Areas      []production.Area    `json:"areas"`
	Items      []inventory.Item     `json:"items"`
	Movements  []inventory.Movement `json:"movements"`
	CashIn     []finance.Entry      `json:"cash_in"`
	CashOut    []finance.Entry      `json:"cash_out"`
	Goals      []goal.MonthlyGoal   `json:"goals"`
}

// Reducer derives the next snapshot. Implementations must not modify their
// argument.
type Reducer func(Snapshot) Snapshot

// Chain applies reducers left to right.
func Chain(reducers ...Reducer) Reducer {
	return func(s Snapshot) Snapshot {
		for _, r := range reducers {
			s = r(s)
		}
		return s
	}
}

func (s Snapshot) Employee(id string) (employee.Employee, bool) {
	for _, e := range s.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return employee.Employee{}, false
}

func (s Snapshot) ActiveEmployees() []employee.Employee {
	out := make([]employee.Employee, 0, len(s.Employees))
	for _, e := range s.Employees {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	return out
}

// Exits are the saida movements.
func (s Snapshot) Exits() []inventory.Movement {
	out := make([]inventory.Movement, 0, len(s.Movements))
	for _, m := range s.Movements {
		if m.Type == inventory.MovementOut {
			out = append(out, m)
		}
	}
	return out
}

// AttendanceFor returns the records of employeeID whose date starts with
// prefix ("2025-03" for a month, "" for all).
func (s Snapshot) AttendanceFor(employeeID, prefix string) []attendance.Record {
	out := make([]attendance.Record, 0)
	for _, r := range s.Attendance {
		if r.EmployeeID == employeeID && len(r.Date) >= len(prefix) && r.Date[:len(prefix)] == prefix {
			out = append(out, r)
		}
	}
	return out
}
