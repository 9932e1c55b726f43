package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jslaski/patchbay/internal/service"
	"github.com/jslaski/patchbay/internal/view"
	datastar "github.com/starfederation/datastar-go/datastar"
)

const dashboardRefreshInterval = 5 * time.Second

// DashboardHandler handles the dashboard page and its live update stream.
type DashboardHandler struct {
	inventory *service.InventoryService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(inventory *service.InventoryService) *DashboardHandler {
	return &DashboardHandler{inventory: inventory}
}

// HandleDashboard renders the dashboard page with inventory totals, status
// breakdown, per-group counts, and recent status changes.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.inventory.Summary(r.Context())
	if err != nil {
		slog.Error("summarize inventory for dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.DashboardPage(user.DisplayName, summary).Render(r.Context(), w)
}

// HandleStream pushes dashboard fragments over SSE. The stats and recent
// activity sections are patched once on connect and again on every refresh
// tick until the client disconnects.
func (h *DashboardHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sse := datastar.NewSSE(w, r)
	ticker := time.NewTicker(dashboardRefreshInterval)
	defer ticker.Stop()

	for {
		summary, err := h.inventory.Summary(r.Context())
		if err != nil {
			slog.Error("summarize inventory for stream", "error", err)
			return
		}

		if err := sse.PatchElementTempl(view.DashboardStatsFragment(summary)); err != nil {
			return
		}
		if err := sse.PatchElementTempl(view.RecentEventsFragment(summary.RecentEvents)); err != nil {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
