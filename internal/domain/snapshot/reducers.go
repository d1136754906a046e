package snapshot

import (
	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
)

// upsert returns a copy of items with item replacing the element of the same
// key, or appended when absent.
func upsert[T any](items []T, item T, key func(T) string) []T {
	out := make([]T, 0, len(items)+1)
	found := false
	for _, existing := range items {
		if key(existing) == key(item) {
			out = append(out, item)
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, item)
	}
	return out
}

func remove[T any](items []T, id string, key func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, existing := range items {
		if key(existing) != id {
			out = append(out, existing)
		}
	}
	return out
}

func employeeKey(e employee.Employee) string         { return e.ID }
func recordKey(r attendance.Record) string           { return r.ID }
func areaKey(a production.Area) string               { return a.ID }
func serviceLineKey(l production.ServiceLine) string { return l.ID }
func itemKey(i inventory.Item) string                { return i.ID }
func movementKey(m inventory.Movement) string        { return m.ID }
func entryKey(e finance.Entry) string                { return e.ID }
func goalKey(g goal.MonthlyGoal) string              { return g.Month }
func companyKey(c company.Company) string            { return c.ID }

func UpsertEmployee(e employee.Employee) Reducer {
	return func(s Snapshot) Snapshot {
		s.Employees = upsert(s.Employees, e, employeeKey)
		return s
	}
}

func UpsertAttendance(records ...attendance.Record) Reducer {
	return func(s Snapshot) Snapshot {
		next := s.Attendance
		for _, r := range records {
			next = upsert(next, r, recordKey)
		}
		s.Attendance = next
		return s
	}
}

func RemoveAttendance(id string) Reducer {
	return func(s Snapshot) Snapshot {
		s.Attendance = remove(s.Attendance, id, recordKey)
		return s
	}
}

func UpsertArea(a production.Area) Reducer {
	return func(s Snapshot) Snapshot {
		s.Areas = upsert(s.Areas, a, areaKey)
		return s
	}
}

// AddServiceLine touches only the Services of the cached area, so two
// requests adding lines to one area never overwrite each other.
func AddServiceLine(line production.ServiceLine) Reducer {
	return func(s Snapshot) Snapshot {
		s.Areas = updateArea(s.Areas, line.AreaID, func(a production.Area) production.Area {
			a.Services = upsert(a.Services, line, serviceLineKey)
			return a
		})
		return s
	}
}

func RemoveServiceLine(areaID, id string) Reducer {
	return func(s Snapshot) Snapshot {
		s.Areas = updateArea(s.Areas, areaID, func(a production.Area) production.Area {
			a.Services = remove(a.Services, id, serviceLineKey)
			return a
		})
		return s
	}
}

// updateArea returns a copy of areas with fn applied to the area id. An
// area missing from the cache is left for the next load to pick up.
func updateArea(areas []production.Area, id string, fn func(production.Area) production.Area) []production.Area {
	out := make([]production.Area, len(areas))
	for i, a := range areas {
		if a.ID == id {
			a = fn(a)
		}
		out[i] = a
	}
	return out
}

func UpsertItem(i inventory.Item) Reducer {
	return func(s Snapshot) Snapshot {
		s.Items = upsert(s.Items, i, itemKey)
		return s
	}
}

func UpsertMovement(m inventory.Movement) Reducer {
	return func(s Snapshot) Snapshot {
		s.Movements = upsert(s.Movements, m, movementKey)
		return s
	}
}

func RemoveMovement(id string) Reducer {
	return func(s Snapshot) Snapshot {
		s.Movements = remove(s.Movements, id, movementKey)
		return s
	}
}

// AddCashEntry files e under cash in or cash out by its direction.
func AddCashEntry(e finance.Entry) Reducer {
	return func(s Snapshot) Snapshot {
		if e.Direction == finance.DirectionIn {
			s.CashIn = upsert(s.CashIn, e, entryKey)
		} else {
			s.CashOut = upsert(s.CashOut, e, entryKey)
		}
		return s
	}
}

func RemoveCashEntry(id string) Reducer {
	return func(s Snapshot) Snapshot {
		s.CashIn = remove(s.CashIn, id, entryKey)
		s.CashOut = remove(s.CashOut, id, entryKey)
		return s
	}
}

func UpsertGoal(g goal.MonthlyGoal) Reducer {
	return func(s Snapshot) Snapshot {
		s.Goals = upsert(s.Goals, g, goalKey)
		return s
	}
}

// SetCompany replaces the company settings, and its entry in the global list
// when one is loaded.
func SetCompany(c company.Company) Reducer {
	return func(s Snapshot) Snapshot {
		if s.CompanyID == c.ID {
			s.Company = c
		}
		if s.Companies != nil {
			s.Companies = upsert(s.Companies, c, companyKey)
		}
		return s
	}
}
