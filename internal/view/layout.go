// Package view renders the HTML pages and datastar fragments served by the
// handlers. Components are plain templ.Component values so handlers and the
// SSE patch helpers can treat pages and fragments uniformly.
package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/jslaski/patchbay/internal/domain"
)

const datastarCDN = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

// baseStyles keeps the app self-contained; there is no static asset pipeline.
const baseStyles = `body{font-family:system-ui,sans-serif;margin:0;color:#1a1a2e;background:#f7f7fb}
nav.nav{display:flex;justify-content:space-between;align-items:center;padding:0.6rem 1.2rem;background:#1a1a2e;color:#fff}
nav.nav a{color:#fff;text-decoration:none;margin-right:1rem}
nav.nav .brand{font-weight:700}
nav.nav form{display:inline;margin:0}
main{max-width:60rem;margin:1.5rem auto;padding:0 1.2rem}
table.list{width:100%;border-collapse:collapse}
table.list th,table.list td{text-align:left;padding:0.4rem 0.6rem;border-bottom:1px solid #ddd}
.status{padding:0.1rem 0.5rem;border-radius:0.6rem;font-size:0.85em}
.status-up{background:#d3f3d9}.status-degraded{background:#fdeeba}
.status-down{background:#f8d1d1}.status-unknown{background:#e4e4ee}
.form-error{color:#a4262c}
.stats{display:flex;gap:1.2rem;flex-wrap:wrap}
.stat{background:#fff;border:1px solid #ddd;border-radius:0.4rem;padding:0.8rem 1.2rem;text-align:center}
.stat-value{display:block;font-size:1.6rem;font-weight:700}
form.stacked label{display:block;margin:0.6rem 0 0.2rem}
form.stacked input,form.stacked select,form.stacked textarea{width:100%;max-width:28rem;padding:0.3rem}`

func esc(s string) string {
	return templ.EscapeString(s)
}

func statusBadge(status domain.ServiceStatus) string {
	return fmt.Sprintf(`<span class="status status-%s">%s</span>`, esc(string(status)), esc(string(status)))
}

// layout wraps page content in the shared document chrome. displayName is
// empty for anonymous visitors, which switches the nav to login/register
// links.
func layout(title, displayName string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, `<title>%s - Patchbay</title>`, esc(title))
		fmt.Fprintf(&b, `<script type="module" src="%s"></script>`, datastarCDN)
		fmt.Fprintf(&b, `<style>%s</style>`, baseStyles)
		b.WriteString(`</head><body><nav class="nav"><a class="brand" href="/">Patchbay</a><div class="nav-links">`)
		if displayName != "" {
			b.WriteString(`<a href="/dashboard">Dashboard</a><a href="/services">Services</a><a href="/groups">Groups</a>`)
			fmt.Fprintf(&b, `<span class="nav-user">%s</span> `, esc(displayName))
			b.WriteString(`<form method="post" action="/logout"><button type="submit">Log Out</button></form>`)
		} else {
			b.WriteString(`<a href="/login">Log In</a><a href="/register">Register</a>`)
		}
		b.WriteString(`</div></nav><main>`)

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// raw adapts a pre-built HTML string into a component. Callers are
// responsible for having escaped any interpolated values.
func raw(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}
