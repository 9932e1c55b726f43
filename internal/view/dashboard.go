package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/jslaski/patchbay/internal/domain"
	"github.com/jslaski/patchbay/internal/service"
)

var statusOrder = []domain.ServiceStatus{
	domain.StatusUp,
	domain.StatusDegraded,
	domain.StatusDown,
	domain.StatusUnknown,
}

// DashboardPage renders the dashboard with its live-updating fragments. The
// data-on-load attribute opens the SSE stream that keeps them fresh.
func DashboardPage(displayName string, summary *service.InventorySummary) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="dashboard" data-on-load="@get('/dashboard/stream')"><h1>Dashboard</h1>`); err != nil {
			return err
		}
		if err := DashboardStatsFragment(summary).Render(ctx, w); err != nil {
			return err
		}
		if err := RecentEventsFragment(summary.RecentEvents).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
	return layout("Dashboard", displayName, body)
}

// DashboardStatsFragment renders the totals, status breakdown, and per-group
// counts. Its root carries id dashboard-stats so SSE patches replace it in
// place.
func DashboardStatsFragment(summary *service.InventorySummary) templ.Component {
	var b strings.Builder
	b.WriteString(`<section id="dashboard-stats">`)
	b.WriteString(`<div class="stats">`)
	fmt.Fprintf(&b, `<div class="stat"><span class="stat-value">%d</span>services</div>`, summary.TotalServices)
	fmt.Fprintf(&b, `<div class="stat"><span class="stat-value">%d</span>groups</div>`, summary.TotalGroups)
	for _, status := range statusOrder {
		fmt.Fprintf(&b, `<div class="stat"><span class="stat-value">%d</span>%s</div>`, summary.ByStatus[status], statusBadge(status))
	}
	b.WriteString(`</div>`)

	b.WriteString(`<h2>Groups</h2><table class="list"><thead><tr><th>Group</th><th>Services</th></tr></thead><tbody>`)
	for _, g := range summary.Groups {
		fmt.Fprintf(&b, `<tr><td><a href="/groups/%d">%s</a></td><td>%d</td></tr>`,
			g.ID, esc(g.Name), summary.ByGroup[g.ID])
	}
	b.WriteString(`</tbody></table></section>`)
	return raw(b.String())
}

// RecentEventsFragment renders the latest status transitions. Its root
// carries id recent-events so SSE patches replace it in place.
func RecentEventsFragment(events []domain.StatusEvent) templ.Component {
	var b strings.Builder
	b.WriteString(`<section id="recent-events"><h2>Recent Activity</h2>`)
	if len(events) == 0 {
		b.WriteString(`<p class="empty">No status changes yet.</p>`)
	} else {
		b.WriteString(`<ul class="event-list">`)
		for _, e := range events {
			fmt.Fprintf(&b, `<li><span class="event-time">%s</span> <a href="/services/%d">%s</a> %s &rarr; %s</li>`,
				e.CreatedAt.Format("Jan 2 15:04"), e.ServiceID, esc(e.ServiceName),
				statusBadge(e.OldStatus), statusBadge(e.NewStatus))
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</section>`)
	return raw(b.String())
}
