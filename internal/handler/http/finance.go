package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/go-chi/chi/v5"
)

type FinanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Post(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type financeHandlerImpl struct {
	financeService finance.FinanceService
}

func NewFinanceHandler(financeService finance.FinanceService) FinanceHandler {
	return &financeHandlerImpl{financeService: financeService}
}

// List implements FinanceHandler. Query: direction (in|out, empty for both)
// plus the filter parameters.
func (h *financeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.financeService.List(r.Context(), finance.ListEntriesRequest{
		Direction: finance.Direction(r.URL.Query().Get("direction")),
		Criteria:  filter.ParseQuery(r.URL.Query()),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, out)
}

func (h *financeHandlerImpl) Post(w http.ResponseWriter, r *http.Request) {
	var req finance.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PostEntry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	entry, err := h.financeService.Post(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Entry posted", entry)
}

func (h *financeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.financeService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Entry deleted", nil)
}
