package view

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/jslaski/patchbay/internal/domain"
)

// GroupListPage renders the group list with per-group service counts.
func GroupListPage(displayName string, groups []domain.Group, counts map[int64]int) templ.Component {
	var b strings.Builder
	b.WriteString(`<div class="page-header"><h1>Groups</h1><a href="/groups/new">New Group</a></div>`)
	if len(groups) == 0 {
		b.WriteString(`<p class="empty">No groups yet.</p>`)
	} else {
		b.WriteString(`<table class="list"><thead><tr><th>Name</th><th>Description</th><th>Services</th></tr></thead><tbody>`)
		for _, g := range groups {
			fmt.Fprintf(&b, `<tr><td><a href="/groups/%d">%s</a></td><td>%s</td><td>%d</td></tr>`,
				g.ID, esc(g.Name), esc(g.Description), counts[g.ID])
		}
		b.WriteString(`</tbody></table>`)
	}
	return layout("Groups", displayName, raw(b.String()))
}

// GroupFormPage renders the creation form when group is nil, otherwise the
// edit form pre-filled with the group's fields.
func GroupFormPage(displayName string, group *domain.Group, errMsg string) templ.Component {
	title := "New Group"
	action := "/groups"
	draft := group
	if draft == nil {
		draft = &domain.Group{}
	} else {
		title = "Edit Group"
		action = fmt.Sprintf("/groups/%d", draft.ID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<h1>%s</h1>`, title)
	writeFormError(&b, errMsg)
	fmt.Fprintf(&b, `<form class="stacked" method="post" action="%s">`, action)
	fmt.Fprintf(&b, `<label for="name">Name</label><input type="text" id="name" name="name" value="%s" required>`, esc(draft.Name))
	fmt.Fprintf(&b, `<label for="description">Description</label><textarea id="description" name="description" rows="3">%s</textarea>`, esc(draft.Description))
	b.WriteString(`<p><button type="submit">Save</button> <a href="/groups">Cancel</a></p>`)
	b.WriteString(`</form>`)
	return layout(title, displayName, raw(b.String()))
}

// GroupDetailPage renders one group and the services it contains.
func GroupDetailPage(displayName string, group *domain.Group, services []domain.Service) templ.Component {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="page-header"><h1>%s</h1><a href="/groups/%d/edit">Edit</a></div>`, esc(group.Name), group.ID)
	if group.Description != "" {
		fmt.Fprintf(&b, `<p>%s</p>`, esc(group.Description))
	}

	fmt.Fprintf(&b, `<h2>Services (%d)</h2>`, len(services))
	writeServiceTable(&b, services, nil)

	fmt.Fprintf(&b, `<form method="post" action="/groups/%d/delete" onsubmit="return confirm('Delete this group and all of its services?')">`, group.ID)
	b.WriteString(`<button type="submit">Delete Group</button></form>`)
	return layout(group.Name, displayName, raw(b.String()))
}
