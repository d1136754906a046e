package report

import (
	"strings"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/payroll"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

// Domain is an exportable collection. The value is the name used in the
// file name.
type Domain string

const (
	DomainInventory  Domain = "Estoque"
	DomainEmployees  Domain = "Funcionarios"
	DomainFinance    Domain = "Financeiro"
	DomainProduction Domain = "Producao"
)

var domainAliases = map[string]Domain{
	"inventory":    DomainInventory,
	"estoque":      DomainInventory,
	"employees":    DomainEmployees,
	"funcionarios": DomainEmployees,
	"finance":      DomainFinance,
	"financeiro":   DomainFinance,
	"production":   DomainProduction,
	"producao":     DomainProduction,
}

// ParseDomain accepts the English route names and the Portuguese file names.
func ParseDomain(s string) (Domain, error) {
	d, ok := domainAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrUnknownDomain
	}
	return d, nil
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", ErrUnknownFormat
}

type ExportRequest struct {
	Domain Domain
	Format Format
	// Filter narrows the exported rows the same way the list screens do.
	Filter filter.Criteria
}

func (r *ExportRequest) Validate() error {
	return r.Filter.Validate()
}

// File is a rendered export ready to be written or served.
type File struct {
	Filename    string
	ContentType string
	Body        []byte
}

type AttendanceSheetRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Month      string `json:"month" validate:"required,yearmonth"`
}

func (r *AttendanceSheetRequest) Validate() error {
	return validator.Struct(r)
}

// SheetDay is one cell of the monthly attendance print view.
type SheetDay struct {
	Date      string             `json:"date"`
	Day       int                `json:"day"`
	Weekday   string             `json:"weekday"`
	Shorthand string             `json:"shorthand"`
	Record    *attendance.Record `json:"record,omitempty"`
}

type AttendanceSheet struct {
	Employee   employee.Employee  `json:"employee"`
	Month      string             `json:"month"`
	MonthTitle string             `json:"month_title"`
	Days       []SheetDay         `json:"days"`
	Counts     map[string]int     `json:"counts"`
	Settlement payroll.Settlement `json:"settlement"`
}
