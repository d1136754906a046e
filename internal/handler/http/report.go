package http

import (
	"net/http"

	"github.com/gestao-urbana/backoffice-go/internal/domain/report"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Export handles GET /reports/{domain}?format=csv|xlsx plus filter params.
	Export(w http.ResponseWriter, r *http.Request)
	// AttendanceSheet handles GET /reports/attendance-sheet?employee_id=&month=
	AttendanceSheet(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	domain, err := report.ParseDomain(chi.URLParam(r, "domain"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.Export(r.Context(), report.ExportRequest{
		Domain: domain,
		Format: format,
		Filter: filter.ParseQuery(r.URL.Query()),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Filename, file.ContentType, file.Body)
}

func (h *reportHandlerImpl) AttendanceSheet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sheet, err := h.reportService.AttendanceSheet(r.Context(), report.AttendanceSheetRequest{
		EmployeeID: q.Get("employee_id"),
		Month:      q.Get("month"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, sheet)
}
