package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/report"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
)

type ReportServiceImpl struct {
	snapshots snapshot.SnapshotService
	logger    *slog.Logger
	now       func() time.Time
}

func NewReportService(snapshots snapshot.SnapshotService, logger *slog.Logger) report.ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportServiceImpl{snapshots: snapshots, logger: logger, now: time.Now}
}

// Filename is Relatorio_<Domain>_<unixMillis>.<ext>.
func Filename(d report.Domain, f report.Format, at time.Time) string {
	return fmt.Sprintf("Relatorio_%s_%d.%s", d, at.UnixMilli(), f)
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.File, error) {
	if err := req.Validate(); err != nil {
		return report.File{}, err
	}
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return report.File{}, err
	}
	file, err := Render(snap, req, s.now())
	if err != nil {
		return report.File{}, err
	}
	s.logger.InfoContext(ctx, "export rendered",
		slog.String("company_id", snap.CompanyID),
		slog.String("file", file.Filename),
		slog.Int("bytes", len(file.Body)))
	return file, nil
}

// Render encodes one domain of snap. It does not touch any store, so the CLI
// can call it on a snapshot it loaded itself.
func Render(snap snapshot.Snapshot, req report.ExportRequest, at time.Time) (report.File, error) {
	t, err := buildTable(snap, req.Domain, req.Filter)
	if err != nil {
		return report.File{}, err
	}

	var (
		body        []byte
		contentType string
	)
	switch req.Format {
	case report.FormatCSV, "":
		req.Format = report.FormatCSV
		body, err = encodeCSV(t)
		contentType = contentTypeCSV
	case report.FormatXLSX:
		body, err = encodeXLSX(t)
		contentType = contentTypeXLSX
	default:
		return report.File{}, report.ErrUnknownFormat
	}
	if err != nil {
		return report.File{}, fmt.Errorf("encode %s export: %w", req.Domain, err)
	}

	return report.File{
		Filename:    Filename(req.Domain, req.Format, at),
		ContentType: contentType,
		Body:        body,
	}, nil
}

// AttendanceSheet implements report.ReportService.
func (s *ReportServiceImpl) AttendanceSheet(ctx context.Context, req report.AttendanceSheetRequest) (report.AttendanceSheet, error) {
	if err := req.Validate(); err != nil {
		return report.AttendanceSheet{}, err
	}
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return report.AttendanceSheet{}, err
	}
	emp, ok := snap.Employee(req.EmployeeID)
	if !ok {
		return report.AttendanceSheet{}, employee.ErrEmployeeNotFound
	}
	return BuildAttendanceSheet(emp, req.Month, snap.AttendanceFor(emp.ID, req.Month))
}
