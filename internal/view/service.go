package view

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/jslaski/patchbay/internal/domain"
)

// ServiceListPage renders the filterable service list.
func ServiceListPage(displayName string, services []domain.Service, groups []domain.Group, filter domain.ServiceFilter) templ.Component {
	groupNames := make(map[int64]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	var b strings.Builder
	b.WriteString(`<div class="page-header"><h1>Services</h1><a href="/services/new">New Service</a></div>`)

	b.WriteString(`<form class="filter" method="get" action="/services">`)
	fmt.Fprintf(&b, `<input type="text" name="q" placeholder="Search name, host, owner" value="%s">`, esc(filter.Query))
	b.WriteString(`<select name="group"><option value="">All groups</option>`)
	for _, g := range groups {
		fmt.Fprintf(&b, `<option value="%d"%s>%s</option>`, g.ID, selected(filter.GroupID == g.ID), esc(g.Name))
	}
	b.WriteString(`</select>`)
	b.WriteString(`<select name="protocol"><option value="">Any protocol</option>`)
	for _, p := range []domain.Protocol{domain.ProtocolTCP, domain.ProtocolUDP} {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, p, selected(filter.Protocol == p), p)
	}
	b.WriteString(`</select>`)
	b.WriteString(`<select name="status"><option value="">Any status</option>`)
	for _, s := range statusOrder {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, s, selected(filter.Status == s), s)
	}
	b.WriteString(`</select>`)
	b.WriteString(`<button type="submit">Filter</button></form>`)

	writeServiceTable(&b, services, groupNames)
	return layout("Services", displayName, raw(b.String()))
}

// ServiceFormPage renders the creation form when svc is nil, otherwise the
// edit form pre-filled with the service's fields.
func ServiceFormPage(displayName string, svc *domain.Service, groups []domain.Group, errMsg string) templ.Component {
	title := "New Service"
	action := "/services"
	draft := svc
	if draft == nil {
		draft = &domain.Service{Protocol: domain.ProtocolTCP, Status: domain.StatusUnknown}
	} else if draft.ID != 0 {
		title = "Edit Service"
		action = fmt.Sprintf("/services/%d", draft.ID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<h1>%s</h1>`, title)
	writeFormError(&b, errMsg)
	fmt.Fprintf(&b, `<form class="stacked" method="post" action="%s">`, action)
	fmt.Fprintf(&b, `<label for="name">Name</label><input type="text" id="name" name="name" value="%s" required>`, esc(draft.Name))
	fmt.Fprintf(&b, `<label for="host">Host</label><input type="text" id="host" name="host" value="%s" required>`, esc(draft.Host))
	port := ""
	if draft.Port != 0 {
		port = fmt.Sprintf("%d", draft.Port)
	}
	fmt.Fprintf(&b, `<label for="port">Port</label><input type="number" id="port" name="port" min="1" max="65535" value="%s" required>`, port)
	b.WriteString(`<label for="protocol">Protocol</label><select id="protocol" name="protocol">`)
	for _, p := range []domain.Protocol{domain.ProtocolTCP, domain.ProtocolUDP} {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, p, selected(draft.Protocol == p), p)
	}
	b.WriteString(`</select>`)
	b.WriteString(`<label for="group_id">Group</label><select id="group_id" name="group_id">`)
	for _, g := range groups {
		fmt.Fprintf(&b, `<option value="%d"%s>%s</option>`, g.ID, selected(draft.GroupID == g.ID), esc(g.Name))
	}
	b.WriteString(`</select>`)
	b.WriteString(`<label for="status">Status</label><select id="status" name="status">`)
	for _, s := range statusOrder {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, s, selected(draft.Status == s), s)
	}
	b.WriteString(`</select>`)
	fmt.Fprintf(&b, `<label for="owner">Owner</label><input type="text" id="owner" name="owner" value="%s">`, esc(draft.Owner))
	fmt.Fprintf(&b, `<label for="notes">Notes</label><textarea id="notes" name="notes" rows="3">%s</textarea>`, esc(draft.Notes))
	b.WriteString(`<p><button type="submit">Save</button> <a href="/services">Cancel</a></p>`)
	b.WriteString(`</form>`)
	return layout(title, displayName, raw(b.String()))
}

// ServiceDetailPage renders one service with its status controls.
func ServiceDetailPage(displayName string, svc *domain.Service, groupName string) templ.Component {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="page-header"><h1>%s</h1><a href="/services/%d/edit">Edit</a></div>`, esc(svc.Name), svc.ID)

	b.WriteString(`<dl class="detail">`)
	fmt.Fprintf(&b, `<dt>Endpoint</dt><dd>%s</dd>`, esc(endpoint(svc)))
	fmt.Fprintf(&b, `<dt>Group</dt><dd>%s</dd>`, esc(groupName))
	fmt.Fprintf(&b, `<dt>Status</dt><dd>%s</dd>`, statusBadge(svc.Status))
	if svc.LastCheckedAt != nil {
		fmt.Fprintf(&b, `<dt>Last checked</dt><dd>%s</dd>`, svc.LastCheckedAt.Format("Jan 2 2006 15:04 MST"))
	}
	if svc.Owner != "" {
		fmt.Fprintf(&b, `<dt>Owner</dt><dd>%s</dd>`, esc(svc.Owner))
	}
	if svc.Notes != "" {
		fmt.Fprintf(&b, `<dt>Notes</dt><dd>%s</dd>`, esc(svc.Notes))
	}
	b.WriteString(`</dl>`)

	fmt.Fprintf(&b, `<form method="post" action="/services/%d/status"><label for="status">Set status</label> <select id="status" name="status">`, svc.ID)
	for _, s := range statusOrder {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, s, selected(svc.Status == s), s)
	}
	b.WriteString(`</select> <button type="submit">Update</button></form>`)

	fmt.Fprintf(&b, `<form method="post" action="/services/%d/delete" onsubmit="return confirm('Delete this service?')">`, svc.ID)
	b.WriteString(`<button type="submit">Delete Service</button></form>`)
	return layout(svc.Name, displayName, raw(b.String()))
}

func writeServiceTable(b *strings.Builder, services []domain.Service, groupNames map[int64]string) {
	if len(services) == 0 {
		b.WriteString(`<p class="empty">No services found.</p>`)
		return
	}

	b.WriteString(`<table class="list"><thead><tr><th>Name</th>`)
	if groupNames != nil {
		b.WriteString(`<th>Group</th>`)
	}
	b.WriteString(`<th>Endpoint</th><th>Status</th><th>Owner</th></tr></thead><tbody>`)
	for i := range services {
		svc := &services[i]
		fmt.Fprintf(b, `<tr><td><a href="/services/%d">%s</a></td>`, svc.ID, esc(svc.Name))
		if groupNames != nil {
			fmt.Fprintf(b, `<td>%s</td>`, esc(groupNames[svc.GroupID]))
		}
		fmt.Fprintf(b, `<td>%s</td><td>%s</td><td>%s</td></tr>`,
			esc(endpoint(svc)), statusBadge(svc.Status), esc(svc.Owner))
	}
	b.WriteString(`</tbody></table>`)
}

func endpoint(svc *domain.Service) string {
	return fmt.Sprintf("%s:%d/%s", svc.Host, svc.Port, svc.Protocol)
}

func selected(cond bool) string {
	if cond {
		return " selected"
	}
	return ""
}
