package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/payroll"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Toggle(w http.ResponseWriter, r *http.Request)
	SavePoint(w http.ResponseWriter, r *http.Request)
	EditValues(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// List implements AttendanceHandler. Query: employee_id, from, to.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.attendanceService.List(r.Context(), attendance.ListRequest{
		EmployeeID: q.Get("employee_id"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

func (h *attendanceHandlerImpl) Toggle(w http.ResponseWriter, r *http.Request) {
	var req attendance.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Toggle decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	result, err := h.attendanceService.Toggle(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *attendanceHandlerImpl) SavePoint(w http.ResponseWriter, r *http.Request) {
	var req attendance.SavePointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SavePoint decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	record, err := h.attendanceService.SavePoint(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance saved", record)
}

func (h *attendanceHandlerImpl) EditValues(w http.ResponseWriter, r *http.Request) {
	var req attendance.EditValuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("EditValues decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	record, err := h.attendanceService.EditValues(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance updated", record)
}

type PayrollHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Settle(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// Preview implements PayrollHandler. Query: employee_id, from, to.
func (h *payrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	preview, err := h.payrollService.Preview(r.Context(), payroll.PreviewRequest{
		EmployeeID: q.Get("employee_id"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, preview)
}

func (h *payrollHandlerImpl) Settle(w http.ResponseWriter, r *http.Request) {
	var req payroll.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Settle decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	result, err := h.payrollService.SettleAndPost(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Settlement posted", result)
}
