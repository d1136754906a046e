package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler interface {
	ListItems(w http.ResponseWriter, r *http.Request)
	CriticalItems(w http.ResponseWriter, r *http.Request)
	CreateItem(w http.ResponseWriter, r *http.Request)
	UpdateItem(w http.ResponseWriter, r *http.Request)
	ListMovements(w http.ResponseWriter, r *http.Request)
	RegisterMovement(w http.ResponseWriter, r *http.Request)
	ReverseMovement(w http.ResponseWriter, r *http.Request)
}

type inventoryHandlerImpl struct {
	inventoryService inventory.InventoryService
}

func NewInventoryHandler(inventoryService inventory.InventoryService) InventoryHandler {
	return &inventoryHandlerImpl{inventoryService: inventoryService}
}

func (h *inventoryHandlerImpl) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.ListItems(r.Context(), filter.ParseQuery(r.URL.Query()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *inventoryHandlerImpl) CriticalItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.CriticalItems(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *inventoryHandlerImpl) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req inventory.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateItem decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	item, err := h.inventoryService.CreateItem(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Item created successfully", item)
}

func (h *inventoryHandlerImpl) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req inventory.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateItem decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	item, err := h.inventoryService.UpdateItem(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Item updated successfully", item)
}

func (h *inventoryHandlerImpl) ListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.inventoryService.ListMovements(r.Context(), filter.ParseQuery(r.URL.Query()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, movements)
}

func (h *inventoryHandlerImpl) RegisterMovement(w http.ResponseWriter, r *http.Request) {
	var req inventory.RegisterMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RegisterMovement decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	result, err := h.inventoryService.RegisterMovement(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Movement registered", result)
}

func (h *inventoryHandlerImpl) ReverseMovement(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventoryService.ReverseMovement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Movement reversed", item)
}
