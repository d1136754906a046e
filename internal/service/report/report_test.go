package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/report"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

var exportTime = time.UnixMilli(1736942400123)

func fixtureSnapshot() snapshot.Snapshot {
	phone := "11 99999-0000"
	return snapshot.Snapshot{
		CompanyID: "c1",
		Items: []inventory.Item{
			{Name: "Luvas", Category: "EPI", Unit: "par", CurrentQty: 2, MinQty: 5},
			{Name: "Tinta", Category: "Material", Unit: "l", CurrentQty: 1234.5, MinQty: 10},
		},
		Employees: []employee.Employee{
			{ID: "e1", Name: "Ana", Role: "Roçadora", PaymentModality: employee.ModalityDaily,
				DefaultValue: decimal.RequireFromString("150"), Status: employee.StatusActive, Phone: &phone},
		},
		CashIn: []finance.Entry{
			{Direction: finance.DirectionIn, Date: "2025-01-20", Value: decimal.RequireFromString("1234.5"), Category: "Contrato", Reference: "Medição 1"},
		},
		CashOut: []finance.Entry{
			{Direction: finance.DirectionOut, Date: "2025-01-05", Value: decimal.RequireFromString("300"), Category: "Folha de Pagamento", Reference: "Acerto Ana"},
		},
		Areas: []production.Area{
			{Name: "Praça Central", Neighborhood: "Centro", Status: production.AreaExecuting, StartDate: "2025-01-02",
				Services: []production.ServiceLine{{ServiceType: "capina", Date: "2025-01-03", Quantity: 120.25, Unit: "m2",
					UnitValue: decimal.RequireFromString("1.5"), TotalValue: decimal.RequireFromString("180.38")}}},
			{Name: "Rua Nova", Neighborhood: "Norte", Status: production.AreaFinished, StartDate: "2024-12-01"},
		},
	}
}

func readCSV(t *testing.T, body []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(body, utf8BOM), "missing BOM")
	r := csv.NewReader(bytes.NewReader(body[len(utf8BOM):]))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRender_InventoryCSV(t *testing.T) {
	file, err := Render(fixtureSnapshot(), report.ExportRequest{Domain: report.DomainInventory}, exportTime)
	require.NoError(t, err)

	assert.Equal(t, "Relatorio_Estoque_1736942400123.csv", file.Filename)
	assert.Equal(t, contentTypeCSV, file.ContentType)

	rows := readCSV(t, file.Body)
	require.Len(t, rows, 3)
	assert.Equal(t, "Quantidade Mínima", rows[0][4])
	assert.Equal(t, []string{"Luvas", "EPI", "par", "2,00", "5,00", "Crítico"}, rows[1])
	// Export numbers never group thousands.
	assert.Equal(t, "1234,50", rows[2][3])
}

func TestRender_FinanceIsSortedAndLocalized(t *testing.T) {
	file, err := Render(fixtureSnapshot(), report.ExportRequest{Domain: report.DomainFinance}, exportTime)
	require.NoError(t, err)

	rows := readCSV(t, file.Body)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"05/01/2025", "Saída", "Folha de Pagamento", "Acerto Ana", "", "300,00"}, rows[1])
	assert.Equal(t, "1234,50", rows[2][5])
}

func TestRender_FilterApplies(t *testing.T) {
	req := report.ExportRequest{Domain: report.DomainFinance, Filter: filter.Criteria{Categories: []string{"Contrato"}}}
	file, err := Render(fixtureSnapshot(), req, exportTime)
	require.NoError(t, err)

	rows := readCSV(t, file.Body)
	require.Len(t, rows, 2)
	assert.Equal(t, "Contrato", rows[1][2])
}

func TestRender_ProductionKeepsEmptyAreas(t *testing.T) {
	file, err := Render(fixtureSnapshot(), report.ExportRequest{Domain: report.DomainProduction}, exportTime)
	require.NoError(t, err)

	rows := readCSV(t, file.Body)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Praça Central", "Centro", "Em execução", "capina", "03/01/2025", "120,25", "m2", "1,50", "180,38"}, rows[1])
	assert.Equal(t, "Finalizada", rows[2][2])
	assert.Equal(t, "", rows[2][3])
}

func TestRender_EmployeesXLSX(t *testing.T) {
	file, err := Render(fixtureSnapshot(), report.ExportRequest{Domain: report.DomainEmployees, Format: report.FormatXLSX}, exportTime)
	require.NoError(t, err)
	assert.Equal(t, "Relatorio_Funcionarios_1736942400123.xlsx", file.Filename)
	assert.Equal(t, contentTypeXLSX, file.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(file.Body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Funcionarios")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Nome", rows[0][0])
	assert.Equal(t, []string{"Ana", "Roçadora", "DIARIA", "150,00", "Ativo", "11 99999-0000"}, rows[1])
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(fixtureSnapshot(), report.ExportRequest{Domain: report.DomainFinance, Format: "pdf"}, exportTime)
	assert.ErrorIs(t, err, report.ErrUnknownFormat)

	_, err = Render(fixtureSnapshot(), report.ExportRequest{Domain: "Frota"}, exportTime)
	assert.ErrorIs(t, err, report.ErrUnknownDomain)
}

func TestParseDomain(t *testing.T) {
	d, err := report.ParseDomain(" Inventory ")
	require.NoError(t, err)
	assert.Equal(t, report.DomainInventory, d)

	d, err = report.ParseDomain("producao")
	require.NoError(t, err)
	assert.Equal(t, report.DomainProduction, d)

	_, err = report.ParseDomain("frota")
	assert.ErrorIs(t, err, report.ErrUnknownDomain)
}

func TestBuildAttendanceSheet(t *testing.T) {
	emp := employee.Employee{ID: "e1", Name: "Ana"}
	records := []attendance.Record{
		{ID: "r1", EmployeeID: "e1", Date: "2025-02-03", Status: attendance.StatusPresent, Value: decimal.RequireFromString("150"), PaymentStatus: attendance.PaymentPending},
		{ID: "r2", EmployeeID: "e1", Date: "2025-02-04", Status: attendance.StatusAbsent, LeaveKind: attendance.LeaveMedicalCertificate, PaymentStatus: attendance.PaymentPending},
		{ID: "r3", EmployeeID: "e1", Date: "2025-02-05", Status: attendance.StatusPartial, Value: decimal.RequireFromString("75"), PaymentStatus: attendance.PaymentPaid},
		{ID: "r4", EmployeeID: "e1", Date: "2025-03-01", Status: attendance.StatusPresent, Value: decimal.RequireFromString("150")},
	}

	sheet, err := BuildAttendanceSheet(emp, "2025-02", records)
	require.NoError(t, err)

	require.Len(t, sheet.Days, 28)
	assert.Equal(t, "fevereiro de 2025", sheet.MonthTitle)
	assert.Equal(t, "sáb", sheet.Days[0].Weekday)
	assert.Equal(t, "-", sheet.Days[0].Shorthand)
	assert.Equal(t, "P", sheet.Days[2].Shorthand)
	assert.Equal(t, "AT", sheet.Days[3].Shorthand)
	assert.Equal(t, "H", sheet.Days[4].Shorthand)
	assert.Equal(t, map[string]int{"P": 1, "AT": 1, "H": 1}, sheet.Counts)
	assert.Equal(t, "150.00", sheet.Settlement.TotalToPay.StringFixed(2))
	assert.ElementsMatch(t, []string{"r1", "r2"}, sheet.Settlement.RecordIDs)
}

type staticSnapshots struct {
	snapshot.NopCommitter
	snap snapshot.Snapshot
}

func (s staticSnapshots) Current(context.Context) (snapshot.Snapshot, error) { return s.snap, nil }

func (s staticSnapshots) Load(context.Context, string, bool) (snapshot.Snapshot, error) {
	return s.snap, nil
}

func TestReportService_AttendanceSheetUnknownEmployee(t *testing.T) {
	svc := NewReportService(staticSnapshots{snap: fixtureSnapshot()}, nil)
	_, err := svc.AttendanceSheet(context.Background(), report.AttendanceSheetRequest{EmployeeID: "nope", Month: "2025-01"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestReportService_ExportRejectsInvertedRange(t *testing.T) {
	svc := NewReportService(staticSnapshots{snap: fixtureSnapshot()}, nil)
	_, err := svc.Export(context.Background(), report.ExportRequest{
		Domain: report.DomainFinance,
		Filter: filter.Criteria{From: "2025-02-01", To: "2025-01-01"},
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "to", verrs[0].Field)
}
