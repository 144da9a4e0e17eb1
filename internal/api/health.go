package api

import (
	"context"
	"net/http"
	"time"

	"github.com/wallkeep/wallkeep/internal/api/respond"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	probe func(context.Context) error
}

// NewHealthHandler creates a health handler. probe checks the storage layer;
// nil means always healthy.
func NewHealthHandler(probe func(context.Context) error) *HealthHandler {
	return &HealthHandler{probe: probe}
}

// CheckHealth handles GET /api/health.
// Always returns 200; the body reports healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.probe != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.probe(ctx); err != nil {
			status = "unhealthy"
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
