package view

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

// LoginPage renders the login form. A non-empty errMsg is shown above the
// form.
func LoginPage(errMsg string) templ.Component {
	var b strings.Builder
	b.WriteString(`<h1>Log In</h1>`)
	writeFormError(&b, errMsg)
	b.WriteString(`<form class="stacked" method="post" action="/login">`)
	b.WriteString(`<label for="email">Email</label><input type="email" id="email" name="email" required>`)
	b.WriteString(`<label for="password">Password</label><input type="password" id="password" name="password" required>`)
	b.WriteString(`<p><button type="submit">Log In</button></p>`)
	b.WriteString(`</form>`)
	b.WriteString(`<p>No account yet? <a href="/register">Register</a>.</p>`)
	return layout("Log In", "", raw(b.String()))
}

// RegisterPage renders the registration form. A non-empty errMsg is shown
// above the form.
func RegisterPage(errMsg string) templ.Component {
	var b strings.Builder
	b.WriteString(`<h1>Register</h1>`)
	writeFormError(&b, errMsg)
	b.WriteString(`<form class="stacked" method="post" action="/register">`)
	b.WriteString(`<label for="email">Email</label><input type="email" id="email" name="email" required>`)
	b.WriteString(`<label for="display_name">Display name</label><input type="text" id="display_name" name="display_name" required>`)
	b.WriteString(`<label for="password">Password</label><input type="password" id="password" name="password" required>`)
	b.WriteString(`<label for="confirm_password">Confirm password</label><input type="password" id="confirm_password" name="confirm_password">`)
	b.WriteString(`<p><button type="submit">Register</button></p>`)
	b.WriteString(`</form>`)
	b.WriteString(`<p>Already registered? <a href="/login">Log in</a>.</p>`)
	return layout("Register", "", raw(b.String()))
}

func writeFormError(b *strings.Builder, errMsg string) {
	if errMsg == "" {
		return
	}
	fmt.Fprintf(b, `<p class="form-error">%s</p>`, esc(errMsg))
}
