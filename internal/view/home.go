package view

import (
	"strings"

	"github.com/a-h/templ"
)

// HomePage renders the landing page.
func HomePage(displayName string) templ.Component {
	var b strings.Builder
	b.WriteString(`<section class="hero"><h1>Patchbay</h1>`)
	b.WriteString(`<p>An inventory dashboard for the services running on your network: what they are, where they live, who owns them, and whether they are up.</p>`)
	if displayName != "" {
		b.WriteString(`<p><a href="/dashboard">Go to your dashboard</a></p>`)
	} else {
		b.WriteString(`<p><a href="/register">Register</a> or <a href="/login">log in</a> to browse the inventory.</p>`)
	}
	b.WriteString(`</section>`)
	return layout("Home", displayName, raw(b.String()))
}
