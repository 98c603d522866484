package handler

import (
	"net/http"

	"github.com/anthonyadade/FakeStack/internal/infrastructure/ws"
)

// HealthHandler answers liveness probes with current hub occupancy.
type HealthHandler struct {
	hub *ws.Hub
}

func NewHealthHandler(hub *ws.Hub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"hub":    h.hub.Stats(),
	})
}
