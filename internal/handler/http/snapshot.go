package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/handler/http/response"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

type SnapshotHandler interface {
	// Get returns the whole company dataset the screens work against.
	Get(w http.ResponseWriter, r *http.Request)
	// Events streams snapshot.changed for the company in the ?token= claims.
	Events(w http.ResponseWriter, r *http.Request)
}

type snapshotHandlerImpl struct {
	snapshots  snapshot.SnapshotService
	jwtService jwt.Service
	hub        *sse.Hub
}

func NewSnapshotHandler(snapshots snapshot.SnapshotService, jwtService jwt.Service, hub *sse.Hub) SnapshotHandler {
	return &snapshotHandlerImpl{snapshots: snapshots, jwtService: jwtService, hub: hub}
}

func (h *snapshotHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Current(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, snap)
}

func (h *snapshotHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the token comes in the query.
	ident, err := h.jwtService.ValidateSSEToken(r.URL.Query().Get("token"))
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}
	if ident.CompanyID == "" {
		response.HandleError(w, jwt.ErrCompanyMissing)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(ident.CompanyID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"company_id\":%q}\n\n", ident.CompanyID)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := sse.Write(w, event); err != nil {
				slog.Warn("event stream write failed", "error", err)
				return
			}
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
