package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jslaski/patchbay/internal/domain"
	"github.com/jslaski/patchbay/internal/service"
	"github.com/jslaski/patchbay/internal/view"
)

// GroupHandler handles group-related HTTP requests.
type GroupHandler struct {
	inventory *service.InventoryService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(inventory *service.InventoryService) *GroupHandler {
	return &GroupHandler{inventory: inventory}
}

// HandleList renders the group list page with per-group service counts.
func (h *GroupHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.inventory.Summary(r.Context())
	if err != nil {
		slog.Error("summarize inventory", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.GroupListPage(user.DisplayName, summary.Groups, summary.ByGroup).Render(r.Context(), w)
}

// HandleNew renders the group creation form.
func (h *GroupHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	view.GroupFormPage(user.DisplayName, nil, "").Render(r.Context(), w)
}

// HandleCreate processes group creation from the form.
func (h *GroupHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	name := r.FormValue("name")
	description := r.FormValue("description")

	if _, err := h.inventory.CreateGroup(r.Context(), name, description); err != nil {
		draft := &domain.Group{Name: name, Description: description}
		if errors.Is(err, domain.ErrDuplicateGroup) {
			h.renderFormError(w, r, user, draft, "A group with that name already exists.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.renderFormError(w, r, user, draft, err.Error())
			return
		}
		slog.Error("create group", "error", err)
		h.renderFormError(w, r, user, draft, "An unexpected error occurred.")
		return
	}

	http.Redirect(w, r, "/groups", http.StatusSeeOther)
}

// HandleView renders a group detail page with the services it contains.
func (h *GroupHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	group, err := h.inventory.GetGroup(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("get group", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	services, err := h.inventory.ListServicesByGroup(r.Context(), id)
	if err != nil {
		slog.Error("list services for group", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.GroupDetailPage(user.DisplayName, group, services).Render(r.Context(), w)
}

// HandleEdit renders the group edit form.
func (h *GroupHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	group, err := h.inventory.GetGroup(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("get group", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.GroupFormPage(user.DisplayName, group, "").Render(r.Context(), w)
}

// HandleUpdate processes group update from the form.
func (h *GroupHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	name := r.FormValue("name")
	description := r.FormValue("description")

	if _, err := h.inventory.UpdateGroup(r.Context(), id, name, description); err != nil {
		draft := &domain.Group{ID: id, Name: name, Description: description}
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrDuplicateGroup) {
			h.renderFormError(w, r, user, draft, "A group with that name already exists.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.renderFormError(w, r, user, draft, err.Error())
			return
		}
		slog.Error("update group", "error", err)
		h.renderFormError(w, r, user, draft, "An unexpected error occurred.")
		return
	}

	http.Redirect(w, r, "/groups", http.StatusSeeOther)
}

// HandleDelete processes group deletion. Services in the group are removed
// with it.
func (h *GroupHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.inventory.DeleteGroup(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("delete group", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/groups", http.StatusSeeOther)
}

func (h *GroupHandler) renderFormError(w http.ResponseWriter, r *http.Request, user *domain.User, draft *domain.Group, errMsg string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	view.GroupFormPage(user.DisplayName, draft, errMsg).Render(r.Context(), w)
}
