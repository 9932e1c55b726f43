package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jslaski/patchbay/internal/domain"
)

// HandleHealthz responds with a 200 OK status and a simple JSON body
// indicating the server is up. It touches no dependencies, so it keeps
// answering while the store is down.
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// SystemHandler exposes store lifecycle details for operators.
type SystemHandler struct {
	store domain.Store
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(store domain.Store) *SystemHandler {
	return &SystemHandler{store: store}
}

// HandleStatus reports whether the store is open, which migrations have been
// applied, and which migration artifacts were skipped during discovery.
// GET /api/system/status
func (h *SystemHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	applied, err := h.store.AppliedMigrations(r.Context())
	if err != nil {
		slog.Error("list applied migrations", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Could not read migration ledger.")
		return
	}

	skipped := h.store.SkippedMigrations()
	if skipped == nil {
		skipped = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"open":             h.store.IsOpen(),
		"migrations":       toMigrationDTOs(applied),
		"skippedArtifacts": skipped,
	})
}
