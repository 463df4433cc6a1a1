package handler

import (
	"net/http"
)

// Pinger is the slice of the store the health check needs. Accepting the
// one-method interface (instead of the whole repository) keeps the probe
// trivially fakeable in tests.
type Pinger interface {
	Ping() error
}

// HealthHandler answers liveness probes.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// HandleHealth reports process and store liveness.
//
// HTTP: GET /health → 200 {"status":"ok"} when the store answers a ping,
// 503 otherwise. Load balancers and orchestrators poll this.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
