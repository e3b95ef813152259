package server

import (
	"context"
	"net/http"

	"github.com/outfleet/outfleet/internal/api"
	"github.com/outfleet/outfleet/internal/constants"
	"github.com/outfleet/outfleet/internal/provision"
)

// handleHealth returns a simple liveness response.
func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:  "ok",
		Version: *constants.GetVersion(),
	})
}

// handleListProjects handles GET /api/v1/projects.
func (r *Router) handleListProjects(w http.ResponseWriter, req *http.Request) {
	projects, err := r.account.ListProjects(req.Context())
	if err != nil {
		r.handleAndLogError(w, req, err, "list projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// handleCreateProject handles POST /api/v1/projects. The call blocks until
// the project is created and configured; project creation has no early
// handle semantics.
func (r *Router) handleCreateProject(w http.ResponseWriter, req *http.Request) {
	var createReq api.CreateProjectRequest
	if err := decodeRequestBody(w, req, &createReq); err != nil {
		return
	}
	if createReq.ProjectID == "" || createReq.BillingAccountID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "invalid request",
			"projectId and billingAccountId are required")
		return
	}

	project, err := r.account.CreateProject(req.Context(), createReq.ProjectID, createReq.BillingAccountID)
	if err != nil {
		r.handleAndLogError(w, req, err, "create project")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// handleListBillingAccounts handles GET /api/v1/billing-accounts.
func (r *Router) handleListBillingAccounts(w http.ResponseWriter, req *http.Request) {
	accounts, err := r.account.ListOpenBillingAccounts(req.Context())
	if err != nil {
		r.handleAndLogError(w, req, err, "list billing accounts")
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// handleListServers handles GET /api/v1/projects/{project}/servers.
func (r *Router) handleListServers(w http.ResponseWriter, req *http.Request) {
	projectID, ok := getRequiredURLParam(w, req, "project")
	if !ok {
		return
	}

	servers, err := r.account.ListServers(req.Context(), projectID)
	if err != nil {
		r.handleAndLogError(w, req, err, "list servers")
		return
	}

	resp := make([]api.Server, 0, len(servers))
	for _, s := range servers {
		resp = append(resp, toWireServer(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateServer handles POST /api/v1/projects/{project}/servers. The
// response is written as soon as the provider accepts the creation; the
// returned server is still PROVISIONING and callers poll the list endpoint
// for readiness.
func (r *Router) handleCreateServer(w http.ResponseWriter, req *http.Request) {
	projectID, ok := getRequiredURLParam(w, req, "project")
	if !ok {
		return
	}

	var createReq api.CreateServerRequest
	if err := decodeRequestBody(w, req, &createReq); err != nil {
		return
	}
	if createReq.Zone == "" {
		writeErrorResponse(w, http.StatusBadRequest, "invalid request", "zone is required")
		return
	}

	// The continuations must outlive this request; detach from the request
	// deadline while keeping context values.
	ctx := context.WithoutCancel(req.Context())
	server, err := r.account.CreateServer(ctx, projectID, createReq.Description, createReq.Zone)
	if err != nil {
		r.handleAndLogError(w, req, err, "create server")
		return
	}
	writeJSON(w, http.StatusAccepted, toWireServer(server))
}

// handleListLocations handles GET /api/v1/projects/{project}/locations.
func (r *Router) handleListLocations(w http.ResponseWriter, req *http.Request) {
	projectID, ok := getRequiredURLParam(w, req, "project")
	if !ok {
		return
	}

	locations, err := r.account.ListLocations(req.Context(), projectID)
	if err != nil {
		r.handleAndLogError(w, req, err, "list locations")
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

// handleProjectHealth handles GET /api/v1/projects/{project}/health.
func (r *Router) handleProjectHealth(w http.ResponseWriter, req *http.Request) {
	projectID, ok := getRequiredURLParam(w, req, "project")
	if !ok {
		return
	}

	healthy, err := r.account.IsProjectHealthy(req.Context(), projectID)
	if err != nil {
		r.handleAndLogError(w, req, err, "check project health")
		return
	}
	writeJSON(w, http.StatusOK, api.ProjectHealth{ProjectID: projectID, Healthy: healthy})
}

// handleRepairProject handles POST /api/v1/projects/{project}/repair.
func (r *Router) handleRepairProject(w http.ResponseWriter, req *http.Request) {
	projectID, ok := getRequiredURLParam(w, req, "project")
	if !ok {
		return
	}

	var repairReq api.RepairProjectRequest
	if err := decodeRequestBody(w, req, &repairReq); err != nil {
		return
	}
	if repairReq.BillingAccountID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "invalid request", "billingAccountId is required")
		return
	}

	if err := r.account.RepairProject(req.Context(), projectID, repairReq.BillingAccountID); err != nil {
		r.handleAndLogError(w, req, err, "repair project")
		return
	}
	writeJSON(w, http.StatusOK, api.ProjectHealth{ProjectID: projectID, Healthy: true})
}

// toWireServer maps a provisioning handle to its wire form, deriving the
// status from the completion signal without blocking on it.
func toWireServer(s *provision.Server) api.Server {
	wire := api.Server{
		ID:      s.ID,
		Name:    s.Name,
		Locator: s.Locator,
		Status:  api.ServerProvisioning,
	}
	if s.Completion.Resolved() {
		if err := s.Completion.Err(); err != nil {
			wire.Status = api.ServerFailed
			wire.LastError = err.Error()
		} else {
			wire.Status = api.ServerReady
		}
	}
	return wire
}
