package handler

import (
	"net/http"
)

// ReadinessChecker reports whether a backing connection is usable.
type ReadinessChecker interface {
	IsConnected() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	stateBackend ReadinessChecker
}

// NewHealthHandler creates a new health handler. stateBackend may be
// nil when the in-memory store is in use.
func NewHealthHandler(stateBackend ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		stateBackend: stateBackend,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.stateBackend != nil && !h.stateBackend.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "state store not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
