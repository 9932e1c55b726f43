package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jslaski/patchbay/internal/domain"
	"github.com/jslaski/patchbay/internal/service"
	"github.com/jslaski/patchbay/internal/view"
)

// AuthHandler handles login, registration, and logout form flows.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler. cookieSecure controls the Secure
// flag on the auth_token cookie and should be false only for plain-HTTP
// development setups.
func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

// HandleLoginPage renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	view.LoginPage("").Render(r.Context(), w)
}

// HandleLogin processes a login form submission. On success it sets the
// auth_token cookie and redirects to the dashboard.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	token, err := h.auth.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			w.WriteHeader(http.StatusUnauthorized)
			view.LoginPage("Invalid email or password.").Render(r.Context(), w)
			return
		}
		if errors.Is(err, domain.ErrRateLimited) {
			w.WriteHeader(http.StatusTooManyRequests)
			view.LoginPage("Too many attempts. Please wait a moment and try again.").Render(r.Context(), w)
			return
		}
		slog.Error("login user", "error", err, "request_id", RequestIDFromContext(r.Context()))
		w.WriteHeader(http.StatusInternalServerError)
		view.LoginPage("An unexpected error occurred. Please try again.").Render(r.Context(), w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleRegisterPage renders the registration form.
// GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	view.RegisterPage("").Render(r.Context(), w)
}

// HandleRegister processes a registration form submission and redirects to
// the login page on success.
// POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")
	if confirm == "" {
		confirm = password
	}

	_, err := h.auth.Register(r.Context(), r.FormValue("email"), r.FormValue("display_name"), password, confirm)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.RegisterPage("An account with that email already exists.").Render(r.Context(), w)
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.RegisterPage(err.Error()).Render(r.Context(), w)
			return
		}
		slog.Error("register user", "error", err, "request_id", RequestIDFromContext(r.Context()))
		w.WriteHeader(http.StatusInternalServerError)
		view.RegisterPage("An unexpected error occurred. Please try again.").Render(r.Context(), w)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLogout clears the auth cookie and redirects to the home page.
// POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
