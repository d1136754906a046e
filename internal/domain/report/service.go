package report

import "context"

type ReportService interface {
	// Export renders one domain of the caller's company.
	Export(ctx context.Context, req ExportRequest) (File, error)

	AttendanceSheet(ctx context.Context, req AttendanceSheetRequest) (AttendanceSheet, error)
}
