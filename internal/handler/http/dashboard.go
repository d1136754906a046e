package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gestao-urbana/backoffice-go/internal/domain/assistant"
	"github.com/gestao-urbana/backoffice-go/internal/domain/dashboard"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// Overview handles GET /dashboard?end=YYYY-MM&months=N
	Overview(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Chat(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	assistantService assistant.AssistantService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, assistantService assistant.AssistantService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService, assistantService: assistantService}
}

func (h *dashboardHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	req := dashboard.OverviewRequest{End: r.URL.Query().Get("end")}
	if raw := r.URL.Query().Get("months"); raw != "" {
		months, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "months must be a number", nil)
			return
		}
		req.Months = months
	}

	result, err := h.dashboardService.Overview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *dashboardHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.Summary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *dashboardHandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	var req assistant.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Chat decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	reply, err := h.assistantService.Chat(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, reply)
}
