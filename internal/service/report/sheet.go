package report

import (
	"time"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/report"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/locale"
	"github.com/gestao-urbana/backoffice-go/internal/service/payroll"
)

var weekdays = [...]string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"}

// BuildAttendanceSheet lays records of one employee out over every day of
// month ("YYYY-MM"). Days without a record render as "-". Records outside
// the month are ignored.
func BuildAttendanceSheet(emp employee.Employee, month string, records []attendance.Record) (report.AttendanceSheet, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return report.AttendanceSheet{}, err
	}

	byDate := make(map[string]attendance.Record, len(records))
	inMonth := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if r.EmployeeID != emp.ID || len(r.Date) < 7 || r.Date[:7] != month {
			continue
		}
		byDate[r.Date] = r
		inMonth = append(inMonth, r)
	}

	sheet := report.AttendanceSheet{
		Employee:   emp,
		Month:      month,
		MonthTitle: locale.MonthTitle(month),
		Counts:     map[string]int{},
		Settlement: payroll.ComputeSettlement(inMonth),
	}
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		day := report.SheetDay{
			Date:      date,
			Day:       d.Day(),
			Weekday:   weekdays[d.Weekday()],
			Shorthand: attendance.StatusToShorthand(""),
		}
		if r, ok := byDate[date]; ok {
			r := r
			day.Record = &r
			day.Shorthand = attendance.StatusToShorthand(r.VirtualStatus())
			sheet.Counts[day.Shorthand]++
		}
		sheet.Days = append(sheet.Days, day)
	}
	return sheet, nil
}
