package controllers

import (
	"net/http"

	"github.com/rzbill/cmdring/internal/runtime"
	commandsvc "github.com/rzbill/cmdring/internal/services/commands"
)

// GeneralController handles endpoints that are not tied to the device
// stream itself: health and counters.
type GeneralController struct {
	rt  *runtime.Runtime
	svc *commandsvc.Service
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime, svc *commandsvc.Service) *GeneralController {
	return &GeneralController{rt: rt, svc: svc}
}

// RegisterRoutes registers general routes with the given mux.
//
// This method sets up HTTP endpoints for:
// - Health checks (/v1/healthz)
// - Device counters (/v1/stats)
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
	mux.HandleFunc("/v1/stats", c.handleStats)
}

// handleHealth returns the health status of the service.
//
// Returns 200 OK with {"status": "ok"} if healthy, 503 Service Unavailable otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleStats returns the device counters.
func (c *GeneralController) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	st, err := c.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := statsResp{
		Capacity:    st.Capacity,
		Count:       st.Count,
		TotalLength: st.TotalLength,
		Pending:     st.Pending,
		Commits:     st.Commits,
		Evictions:   st.Evictions,
	}
	if ss, ok := c.rt.StorageStats(); ok {
		resp.Archive = &archiveStatsResp{
			Entries:      c.rt.Archive().Len(),
			BatchCommits: ss.Commits,
			CommitOps:    ss.CommitOps,
			CommitBytes:  ss.CommitBytes,
			Reads:        ss.Reads,
			ReadBytes:    ss.ReadBytes,
		}
	}
	writeJSON(w, resp)
}
