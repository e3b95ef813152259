// Package server exposes the account facade over HTTP. It is a thin
// presentation adapter; all provisioning semantics live in the account and
// provision packages.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/outfleet/outfleet/internal/account"
)

type contextKey string

// Router wires the account facade into a chi router.
type Router struct {
	router  *chi.Mux
	account *account.Account
	logger  *slog.Logger
}

// NewRouter creates a chi router with all routes configured. requestTimeout
// of zero disables the per-request deadline.
func NewRouter(acct *account.Account, baseLogger *slog.Logger, requestTimeout time.Duration) *Router {
	r := chi.NewRouter()
	router := &Router{
		router:  r,
		account: acct,
		logger:  baseLogger,
	}

	r.Use(setContentTypeJSONMiddleware)
	r.Use(router.requestIDMiddleware)
	r.Use(router.requestLoggingMiddleware)
	if requestTimeout > 0 {
		r.Use(router.requestTimeoutMiddleware(requestTimeout))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", router.handleHealth)
		r.Get("/projects", router.handleListProjects)
		r.Post("/projects", router.handleCreateProject)
		r.Get("/billing-accounts", router.handleListBillingAccounts)
		r.Route("/projects/{project}", func(r chi.Router) {
			r.Get("/servers", router.handleListServers)
			r.Post("/servers", router.handleCreateServer)
			r.Get("/locations", router.handleListLocations)
			r.Get("/health", router.handleProjectHealth)
			r.Post("/repair", router.handleRepairProject)
		})
	})

	return router
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Handler returns an http.Handler for the router.
func (r *Router) Handler() http.Handler {
	return r.router
}
