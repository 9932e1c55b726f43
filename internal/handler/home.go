package handler

import (
	"net/http"

	"github.com/jslaski/patchbay/internal/view"
)

// HandleHome renders the home page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	displayName := ""
	if user := UserFromContext(r.Context()); user != nil {
		displayName = user.DisplayName
	}
	view.HomePage(displayName).Render(r.Context(), w)
}
