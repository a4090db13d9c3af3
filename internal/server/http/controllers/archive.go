package controllers

import (
	"net/http"

	commandsvc "github.com/rzbill/cmdring/internal/services/commands"
)

// ArchiveController lists evicted commands kept by the archive.
type ArchiveController struct {
	svc *commandsvc.Service
}

// NewArchiveController creates a new archive controller.
func NewArchiveController(svc *commandsvc.Service) *ArchiveController {
	return &ArchiveController{svc: svc}
}

// RegisterRoutes registers archive routes with the given mux.
func (c *ArchiveController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/archive", c.handleList)
}

// handleList returns archived evictions, newest first. Query param: limit
// (default 100). Returns 409 Conflict when the archive is disabled.
func (c *ArchiveController) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	entries, err := c.svc.Archive(r.Context(), parseLimit(r.URL.Query().Get("limit"), 100))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]archiveResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, archiveResp{
			Seq:         e.Seq,
			ID:          e.ID.String(),
			EvictedAtMs: e.EvictedAt.UnixMilli(),
			Text:        printable(e.Data),
			Data:        e.Data,
		})
	}
	writeJSON(w, map[string]any{"entries": out})
}
