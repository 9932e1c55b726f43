package service

import (
	"fmt"
	"strings"

	"github.com/jslaski/patchbay/internal/domain"
)

// RenderInventoryText renders the inventory as plain text, one group
// section per group and one service per line. The patchbayctl report
// command prints this.
func RenderInventoryText(groups []domain.Group, services []domain.Service) string {
	if len(groups) == 0 && len(services) == 0 {
		return "inventory is empty"
	}

	byGroup := make(map[int64][]domain.Service, len(groups))
	for _, svc := range services {
		byGroup[svc.GroupID] = append(byGroup[svc.GroupID], svc)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d services in %d groups\n", len(services), len(groups))

	for _, g := range groups {
		members := byGroup[g.ID]
		fmt.Fprintf(&sb, "\n%s (%d)\n", g.Name, len(members))
		for _, svc := range members {
			sb.WriteString(renderServiceLine(&svc))
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func renderServiceLine(svc *domain.Service) string {
	endpoint := fmt.Sprintf("%s:%d/%s", svc.Host, svc.Port, svc.Protocol)
	line := fmt.Sprintf("  %-24s %-24s %-8s", svc.Name, endpoint, svc.Status)
	if svc.Owner != "" {
		line += " " + svc.Owner
	}
	return strings.TrimRight(line, " ")
}

// RenderStatusCounts renders status totals as a single line in severity
// order, e.g. "3 up, 1 degraded, 2 unknown". Statuses with no services
// are omitted.
func RenderStatusCounts(counts map[domain.ServiceStatus]int) string {
	order := []domain.ServiceStatus{
		domain.StatusUp,
		domain.StatusDegraded,
		domain.StatusDown,
		domain.StatusUnknown,
	}

	var parts []string
	for _, status := range order {
		if n := counts[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	if len(parts) == 0 {
		return "no services"
	}
	return strings.Join(parts, ", ")
}
