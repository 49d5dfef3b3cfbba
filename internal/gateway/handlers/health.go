package handlers

import "net/http"

// Healthz is a liveness probe.
// It returns 200 OK if the server is running.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	h.respondJson(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Readyz is a readiness probe.
// When an archive is configured it also checks database connectivity.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.archive != nil {
		if err := h.archive.Ping(r.Context()); err != nil {
			h.httpError(w, "Database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	h.respondJson(w, http.StatusOK, map[string]string{"status": "ready"})
}
