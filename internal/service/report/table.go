package report

import (
	"sort"
	"strings"

	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/report"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/locale"
)

// table is a rendered export before encoding.
type table struct {
	sheet   string
	headers []string
	rows    [][]string
}

var (
	itemFields = filter.Fields[inventory.Item]{
		Text:     func(i inventory.Item) string { return i.Name },
		Category: func(i inventory.Item) string { return i.Category },
	}
	employeeFields = filter.Fields[employee.Employee]{
		Text:     func(e employee.Employee) string { return e.Name + " " + e.Role },
		Category: func(e employee.Employee) string { return string(e.PaymentModality) },
	}
	entryFields = filter.Fields[finance.Entry]{
		Text:     func(e finance.Entry) string { return e.Reference + " " + e.Description },
		Category: func(e finance.Entry) string { return e.Category },
		Date:     func(e finance.Entry) string { return e.Date },
	}
	areaFields = filter.Fields[production.Area]{
		Text: func(a production.Area) string { return a.Name + " " + a.Neighborhood },
		Date: func(a production.Area) string { return a.StartDate },
	}
)

func buildTable(snap snapshot.Snapshot, d report.Domain, c filter.Criteria) (table, error) {
	switch d {
	case report.DomainInventory:
		return inventoryTable(filter.Apply(snap.Items, c, itemFields)), nil
	case report.DomainEmployees:
		return employeeTable(filter.Apply(snap.Employees, c, employeeFields)), nil
	case report.DomainFinance:
		entries := append(append([]finance.Entry{}, snap.CashIn...), snap.CashOut...)
		return financeTable(filter.Apply(entries, c, entryFields)), nil
	case report.DomainProduction:
		return productionTable(filter.Apply(snap.Areas, c, areaFields)), nil
	}
	return table{}, report.ErrUnknownDomain
}

func inventoryTable(items []inventory.Item) table {
	t := table{
		sheet:   "Estoque",
		headers: []string{"Item", "Categoria", "Unidade", "Quantidade Atual", "Quantidade Mínima", "Situação"},
	}
	for _, i := range items {
		situation := "Normal"
		if i.IsCritical() {
			situation = "Crítico"
		}
		t.rows = append(t.rows, []string{
			i.Name,
			i.Category,
			i.Unit,
			locale.ExportQuantity(i.CurrentQty, 2),
			locale.ExportQuantity(i.MinQty, 2),
			situation,
		})
	}
	return t
}

func employeeTable(employees []employee.Employee) table {
	t := table{
		sheet:   "Funcionarios",
		headers: []string{"Nome", "Função", "Modalidade", "Valor Padrão", "Status", "Telefone", "Documento"},
	}
	for _, e := range employees {
		status := "Ativo"
		if !e.IsActive() {
			status = "Inativo"
		}
		t.rows = append(t.rows, []string{
			e.Name,
			e.Role,
			string(e.PaymentModality),
			locale.ExportNumber(e.DefaultValue, 2),
			status,
			deref(e.Phone),
			deref(e.Document),
		})
	}
	return t
}

func financeTable(entries []finance.Entry) table {
	sorted := append([]finance.Entry{}, entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	t := table{
		sheet:   "Financeiro",
		headers: []string{"Data", "Tipo", "Categoria", "Referência", "Descrição", "Valor"},
	}
	for _, e := range sorted {
		kind := "Entrada"
		if e.Direction == finance.DirectionOut {
			kind = "Saída"
		}
		t.rows = append(t.rows, []string{
			locale.Date(e.Date),
			kind,
			e.Category,
			e.Reference,
			e.Description,
			locale.ExportNumber(e.Value, 2),
		})
	}
	return t
}

// productionTable has one row per service line; an area without lines still
// gets a row so it shows up in the file.
func productionTable(areas []production.Area) table {
	t := table{
		sheet: "Producao",
		headers: []string{
			"Área", "Bairro", "Status", "Serviço", "Data",
			"Quantidade", "Unidade", "Valor Unitário", "Valor Total",
		},
	}
	for _, a := range areas {
		status := "Em execução"
		if a.IsFinished() {
			status = "Finalizada"
		}
		if len(a.Services) == 0 {
			t.rows = append(t.rows, []string{a.Name, a.Neighborhood, status, "", "", "", "", "", ""})
			continue
		}
		for _, s := range a.Services {
			t.rows = append(t.rows, []string{
				a.Name,
				a.Neighborhood,
				status,
				s.ServiceType,
				locale.Date(s.Date),
				locale.ExportQuantity(s.Quantity, 2),
				s.Unit,
				locale.ExportNumber(s.UnitValue, 2),
				locale.ExportNumber(s.TotalValue, 2),
			})
		}
	}
	return t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
