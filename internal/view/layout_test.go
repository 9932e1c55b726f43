package view

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func TestLayout_AnonymousNav(t *testing.T) {
	got := render(t, layout("Home", "", raw(`<p>hello</p>`)))

	if !strings.Contains(got, `<a href="/login">Log In</a>`) {
		t.Error("anonymous nav should link to /login")
	}
	if !strings.Contains(got, `<a href="/register">Register</a>`) {
		t.Error("anonymous nav should link to /register")
	}
	if strings.Contains(got, `action="/logout"`) {
		t.Error("anonymous nav should not show the logout form")
	}
	if !strings.Contains(got, `<p>hello</p>`) {
		t.Error("layout should include the body content")
	}
}

func TestLayout_SignedInNav(t *testing.T) {
	got := render(t, layout("Home", "Casey", raw(``)))

	if !strings.Contains(got, `<a href="/dashboard">Dashboard</a>`) {
		t.Error("signed-in nav should link to /dashboard")
	}
	if !strings.Contains(got, `<span class="nav-user">Casey</span>`) {
		t.Error("signed-in nav should show the display name")
	}
	if !strings.Contains(got, `action="/logout"`) {
		t.Error("signed-in nav should show the logout form")
	}
	if strings.Contains(got, `<a href="/login">`) {
		t.Error("signed-in nav should not link to /login")
	}
}

func TestLayout_EscapesDisplayName(t *testing.T) {
	got := render(t, layout("Home", `<script>alert(1)</script>`, raw(``)))

	if strings.Contains(got, `<script>alert(1)</script>`) {
		t.Fatal("display name must be escaped")
	}
	if !strings.Contains(got, `&lt;script&gt;`) {
		t.Error("expected escaped display name in output")
	}
}

func TestHomePage(t *testing.T) {
	anon := render(t, HomePage(""))
	if !strings.Contains(anon, "<h1>Patchbay</h1>") {
		t.Error("home page should contain the heading")
	}
	if !strings.Contains(anon, `<a href="/register">Register</a>`) {
		t.Error("anonymous home page should invite registration")
	}

	signedIn := render(t, HomePage("Casey"))
	if !strings.Contains(signedIn, `<a href="/dashboard">Go to your dashboard</a>`) {
		t.Error("signed-in home page should link to the dashboard")
	}
}

func TestLoginPage(t *testing.T) {
	got := render(t, LoginPage(""))

	if !strings.Contains(got, "Log In") {
		t.Error("login page should contain 'Log In'")
	}
	if !strings.Contains(got, `action="/login"`) {
		t.Error("login form should post to /login")
	}
	if strings.Contains(got, `<p class="form-error">`) {
		t.Error("login page without error should not render an error box")
	}
}

func TestLoginPage_WithError(t *testing.T) {
	got := render(t, LoginPage("Invalid email or password."))

	if !strings.Contains(got, `<p class="form-error">Invalid email or password.</p>`) {
		t.Error("login page should render the error message")
	}
}

func TestRegisterPage(t *testing.T) {
	got := render(t, RegisterPage(""))

	if !strings.Contains(got, `action="/register"`) {
		t.Error("register form should post to /register")
	}
	for _, field := range []string{`name="email"`, `name="display_name"`, `name="password"`, `name="confirm_password"`} {
		if !strings.Contains(got, field) {
			t.Errorf("register form missing field %s", field)
		}
	}
}
