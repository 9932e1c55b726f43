package handler

import (
	"net/http"

	"github.com/jslaski/patchbay/internal/domain"
	"github.com/jslaski/patchbay/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, inventory *service.InventoryService, store domain.Store, cookieSecure bool) {
	authHandler := NewAuthHandler(auth, cookieSecure)
	groupHandler := NewGroupHandler(inventory)
	serviceHandler := NewServiceHandler(inventory)
	dashboardHandler := NewDashboardHandler(inventory)
	systemHandler := NewSystemHandler(store)

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /api/system/status", RequireAuth(auth, http.HandlerFunc(systemHandler.HandleStatus)))
	mux.Handle("GET /api/services", RequireAuth(auth, http.HandlerFunc(serviceHandler.HandleAPIList)))

	mux.Handle("GET /", OptionalAuth(auth, http.HandlerFunc(HandleHome)))

	mux.HandleFunc("GET /login", authHandler.HandleLoginPage)
	mux.HandleFunc("POST /login", authHandler.HandleLogin)
	mux.HandleFunc("GET /register", authHandler.HandleRegisterPage)
	mux.HandleFunc("POST /register", authHandler.HandleRegister)
	mux.HandleFunc("POST /logout", authHandler.HandleLogout)

	mux.Handle("GET /dashboard", RequireAuth(auth, http.HandlerFunc(dashboardHandler.HandleDashboard)))
	mux.Handle("GET /dashboard/stream", RequireAuth(auth, http.HandlerFunc(dashboardHandler.HandleStream)))

	mux.Handle("GET /groups", RequireAuth(auth, http.HandlerFunc(groupHandler.HandleList)))
	mux.Handle("GET /groups/new", RequireAuth(auth, http.HandlerFunc(groupHandler.HandleNew)))
	mux.Handle("POST /groups", RequireAuth(auth, http.HandlerFunc(groupHandler.HandleCreate)))
	mux.Handle("GET /groups/{id}", RequireAuth(auth, http.HandlerFunc(groupHandler.HandleView)))
	mux.Handle("GET /groups/{id}/edit", RequireAuth(auth, http.HandlerFunc(groupHandler.HandleEdit)))
	mux.Handle("POST /groups/{id}", RequireAuth(auth, http.HandlerFunc(groupHandler.HandleUpdate)))
	mux.Handle("POST /groups/{id}/delete", RequireAuth(auth, http.HandlerFunc(groupHandler.HandleDelete)))

	mux.Handle("GET /services", RequireAuth(auth, http.HandlerFunc(serviceHandler.HandleList)))
	mux.Handle("GET /services/new", RequireAuth(auth, http.HandlerFunc(serviceHandler.HandleNew)))
	mux.Handle("POST /services", RequireAuth(auth, http.HandlerFunc(serviceHandler.HandleCreate)))
	mux.Handle("GET /services/{id}", RequireAuth(auth, http.HandlerFunc(serviceHandler.HandleView)))
	mux.Handle("GET /services/{id}/edit", RequireAuth(auth, http.HandlerFunc(serviceHandler.HandleEdit)))
	mux.Handle("POST /services/{id}", RequireAuth(auth, http.HandlerFunc(serviceHandler.HandleUpdate)))
	mux.Handle("POST /services/{id}/delete", RequireAuth(auth, http.HandlerFunc(serviceHandler.HandleDelete)))
	mux.Handle("POST /services/{id}/status", RequireAuth(auth, http.HandlerFunc(serviceHandler.HandleSetStatus)))
}
