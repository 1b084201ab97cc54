package handlers

import (
	"net/http"

	"github.com/flordomaracuja/lead-capture/internal/leads"
	"github.com/flordomaracuja/lead-capture/internal/pipeline"
)

// HealthHandler reports service liveness and readiness.
type HealthHandler struct {
	repo     leads.Repository
	pipeline *pipeline.Pipeline
}

// NewHealthHandler creates a new health handler. The repository may be nil.
func NewHealthHandler(repo leads.Repository, p *pipeline.Pipeline) *HealthHandler {
	return &HealthHandler{repo: repo, pipeline: p}
}

// Live returns a simple health check response.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready probes the lead store and reports the offline queue depth, so a load
// balancer can drain an instance whose store went away.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	status := http.StatusOK

	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			resp["status"] = "degraded"
			resp["store"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp["store"] = "ok"
		}
	}
	if h.pipeline != nil {
		resp["offline_queue_depth"] = h.pipeline.QueueDepth(r.Context())
	}

	writeJSON(w, status, resp)
}
