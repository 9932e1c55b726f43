package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jslaski/patchbay/internal/domain"
	"github.com/jslaski/patchbay/internal/service"
	"github.com/jslaski/patchbay/internal/view"
)

// ServiceHandler handles service-related HTTP requests.
type ServiceHandler struct {
	inventory *service.InventoryService
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(inventory *service.InventoryService) *ServiceHandler {
	return &ServiceHandler{inventory: inventory}
}

// HandleList renders the service list page, narrowed by any filter query
// parameters.
func (h *ServiceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := parseServiceFilter(r)
	services, err := h.inventory.SearchServices(r.Context(), filter)
	if err != nil {
		slog.Error("search services", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	groups, err := h.inventory.ListGroups(r.Context())
	if err != nil {
		slog.Error("list groups", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.ServiceListPage(user.DisplayName, services, groups, filter).Render(r.Context(), w)
}

// HandleNew renders the service creation form.
func (h *ServiceHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	groups, err := h.inventory.ListGroups(r.Context())
	if err != nil {
		slog.Error("list groups", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.ServiceFormPage(user.DisplayName, nil, groups, "").Render(r.Context(), w)
}

// HandleCreate processes service creation from the form.
func (h *ServiceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	svc, err := parseServiceForm(r)
	if err != nil {
		h.renderFormError(w, r, user, svc, err.Error())
		return
	}

	if err := h.inventory.CreateService(r.Context(), svc); err != nil {
		if errors.Is(err, domain.ErrDuplicateEndpoint) {
			h.renderFormError(w, r, user, svc, "A service with that host, port, and protocol already exists.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.renderFormError(w, r, user, svc, err.Error())
			return
		}
		slog.Error("create service", "error", err)
		h.renderFormError(w, r, user, svc, "An unexpected error occurred.")
		return
	}

	http.Redirect(w, r, "/services", http.StatusSeeOther)
}

// HandleView renders a service detail page.
func (h *ServiceHandler) HandleView(w http.ResponseWriter, r *http.Request) {
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

	svc, err := h.inventory.GetService(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("get service", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	groupName := ""
	if group, err := h.inventory.GetGroup(r.Context(), svc.GroupID); err == nil {
		groupName = group.Name
	}

	view.ServiceDetailPage(user.DisplayName, svc, groupName).Render(r.Context(), w)
}

// HandleEdit renders the service edit form.
func (h *ServiceHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
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

	svc, err := h.inventory.GetService(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("get service", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	groups, err := h.inventory.ListGroups(r.Context())
	if err != nil {
		slog.Error("list groups", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.ServiceFormPage(user.DisplayName, svc, groups, "").Render(r.Context(), w)
}

// HandleUpdate processes service update from the form.
func (h *ServiceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	svc, err := parseServiceForm(r)
	if err != nil {
		h.renderFormError(w, r, user, svc, err.Error())
		return
	}
	svc.ID = id

	if err := h.inventory.UpdateService(r.Context(), svc); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrDuplicateEndpoint) {
			h.renderFormError(w, r, user, svc, "A service with that host, port, and protocol already exists.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.renderFormError(w, r, user, svc, err.Error())
			return
		}
		slog.Error("update service", "error", err)
		h.renderFormError(w, r, user, svc, "An unexpected error occurred.")
		return
	}

	http.Redirect(w, r, "/services/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// HandleDelete processes service deletion.
func (h *ServiceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.inventory.DeleteService(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("delete service", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/services", http.StatusSeeOther)
}

// HandleSetStatus records a status transition for a service and returns to
// its detail page.
func (h *ServiceHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
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

	status := domain.ServiceStatus(r.FormValue("status"))
	if _, err := h.inventory.SetServiceStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		slog.Error("set service status", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/services/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// HandleAPIList returns the filtered service list as JSON.
// GET /api/services
func (h *ServiceHandler) HandleAPIList(w http.ResponseWriter, r *http.Request) {
	filter := parseServiceFilter(r)
	services, err := h.inventory.SearchServices(r.Context(), filter)
	if err != nil {
		slog.Error("search services", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Could not list services.")
		return
	}

	groups, err := h.inventory.ListGroups(r.Context())
	if err != nil {
		slog.Error("list groups", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Could not list services.")
		return
	}
	groupNames := make(map[int64]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"services": toServiceDTOs(services, groupNames),
	})
}

func (h *ServiceHandler) renderFormError(w http.ResponseWriter, r *http.Request, user *domain.User, draft *domain.Service, errMsg string) {
	groups, _ := h.inventory.ListGroups(r.Context())
	w.WriteHeader(http.StatusUnprocessableEntity)
	view.ServiceFormPage(user.DisplayName, draft, groups, errMsg).Render(r.Context(), w)
}

// parseServiceFilter reads filter narrowing from query parameters.
// Supported: q (substring), group (ID), protocol, status.
func parseServiceFilter(r *http.Request) domain.ServiceFilter {
	filter := domain.ServiceFilter{
		Query:    r.URL.Query().Get("q"),
		Protocol: domain.Protocol(r.URL.Query().Get("protocol")),
		Status:   domain.ServiceStatus(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("group"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.GroupID = id
		}
	}
	return filter
}

// parseServiceForm reads service fields from a form submission. Range and
// enumeration checks live in the service layer; this only rejects values the
// form cannot express as the right type. The partially parsed draft is
// returned alongside the error so the form can be re-rendered filled in.
func parseServiceForm(r *http.Request) (*domain.Service, error) {
	if err := r.ParseForm(); err != nil {
		return &domain.Service{}, fmt.Errorf("%w: malformed form submission", domain.ErrInvalidInput)
	}

	svc := &domain.Service{
		Name:     r.FormValue("name"),
		Host:     r.FormValue("host"),
		Protocol: domain.Protocol(r.FormValue("protocol")),
		Status:   domain.ServiceStatus(r.FormValue("status")),
		Owner:    r.FormValue("owner"),
		Notes:    r.FormValue("notes"),
	}

	if v := r.FormValue("port"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return svc, fmt.Errorf("%w: port must be a number", domain.ErrInvalidInput)
		}
		svc.Port = port
	}

	if v := r.FormValue("group_id"); v != "" {
		groupID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return svc, fmt.Errorf("%w: invalid group selection", domain.ErrInvalidInput)
		}
		svc.GroupID = groupID
	}

	return svc, nil
}
