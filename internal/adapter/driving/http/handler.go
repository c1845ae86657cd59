// Package httphandler serves the JSON health endpoint and provides the
// middleware shared by every route.
package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ericfisherdev/agendahub/internal/application"
)

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	store   Pinger
	agendas *application.AgendaService
	logger  *slog.Logger
	now     func() time.Time
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(store Pinger, agendas *application.AgendaService, logger *slog.Logger) *Handler {
	return &Handler{
		store:   store,
		agendas: agendas,
		logger:  logger,
		now:     time.Now,
	}
}

// RegisterAPIRoutes registers the JSON endpoints on r.
func RegisterAPIRoutes(r chi.Router, h *Handler) {
	r.Get("/api/v1/health", h.Health)
}

// Health reports liveness plus storage reachability. An unreachable store
// yields 503 so container healthchecks fail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:  "ok",
		Time:    h.now().UTC().Format(time.RFC3339),
		Storage: "ok",
	}

	if err := h.store.PingContext(ctx); err != nil {
		h.logger.Error("health check: storage unreachable", "error", err)
		resp.Status = "degraded"
		resp.Storage = "unreachable"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Agendas = len(h.agendas.List(ctx))
	writeJSON(w, http.StatusOK, resp)
}
