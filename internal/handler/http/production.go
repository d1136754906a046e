package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/go-chi/chi/v5"
)

type ProductionHandler interface {
	ListAreas(w http.ResponseWriter, r *http.Request)
	GetArea(w http.ResponseWriter, r *http.Request)
	CreateArea(w http.ResponseWriter, r *http.Request)
	UpdateArea(w http.ResponseWriter, r *http.Request)
	FinishArea(w http.ResponseWriter, r *http.Request)
	AddService(w http.ResponseWriter, r *http.Request)
	RemoveService(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
	ListGoals(w http.ResponseWriter, r *http.Request)
	UpsertGoal(w http.ResponseWriter, r *http.Request)
}

type productionHandlerImpl struct {
	productionService production.ProductionService
	goalService       goal.GoalService
}

func NewProductionHandler(productionService production.ProductionService, goalService goal.GoalService) ProductionHandler {
	return &productionHandlerImpl{productionService: productionService, goalService: goalService}
}

func (h *productionHandlerImpl) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.productionService.ListAreas(r.Context(), filter.ParseQuery(r.URL.Query()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, areas)
}

func (h *productionHandlerImpl) GetArea(w http.ResponseWriter, r *http.Request) {
	area, err := h.productionService.GetArea(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, area)
}

func (h *productionHandlerImpl) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req production.CreateAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateArea decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	area, err := h.productionService.CreateArea(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Area created successfully", area)
}

func (h *productionHandlerImpl) UpdateArea(w http.ResponseWriter, r *http.Request) {
	var req production.UpdateAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateArea decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	area, err := h.productionService.UpdateArea(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Area updated successfully", area)
}

func (h *productionHandlerImpl) FinishArea(w http.ResponseWriter, r *http.Request) {
	var req production.FinishAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("FinishArea decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	area, err := h.productionService.FinishArea(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Area finished", area)
}

func (h *productionHandlerImpl) AddService(w http.ResponseWriter, r *http.Request) {
	var req production.AddServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddService decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AreaID = chi.URLParam(r, "id")
	line, err := h.productionService.AddService(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Service added", line)
}

func (h *productionHandlerImpl) RemoveService(w http.ResponseWriter, r *http.Request) {
	if err := h.productionService.RemoveService(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "serviceID")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Service removed", nil)
}

func (h *productionHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.productionService.Report(r.Context(), filter.ParseQuery(r.URL.Query()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, report)
}

func (h *productionHandlerImpl) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, goals)
}

func (h *productionHandlerImpl) UpsertGoal(w http.ResponseWriter, r *http.Request) {
	var req goal.UpsertGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpsertGoal decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Month = chi.URLParam(r, "month")
	g, err := h.goalService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Goal saved", g)
}
