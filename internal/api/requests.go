package api

// CreateProjectRequest is the body of POST /api/v1/projects.
type CreateProjectRequest struct {
	ProjectID        string `json:"projectId"`
	BillingAccountID string `json:"billingAccountId"`
}

// CreateServerRequest is the body of POST /api/v1/projects/{project}/servers.
type CreateServerRequest struct {
	Description string `json:"description,omitempty"`
	Zone        string `json:"zone"`
}

// Server is the wire form of a provisioned relay server. Status reflects the
// completion signal: PROVISIONING while continuations are in flight, READY on
// success, FAILED when either continuation failed.
type Server struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Locator   InstanceLocator `json:"locator"`
	Status    string          `json:"status"`
	LastError string          `json:"lastError,omitempty"`
}

// Server status values.
const (
	ServerProvisioning = "PROVISIONING"
	ServerReady        = "READY"
	ServerFailed       = "FAILED"
)

// RepairProjectRequest is the body of POST /api/v1/projects/{project}/repair.
type RepairProjectRequest struct {
	BillingAccountID string `json:"billingAccountId"`
}

// ProjectHealth is the response of GET /api/v1/projects/{project}/health.
type ProjectHealth struct {
	ProjectID string `json:"projectId"`
	Healthy   bool   `json:"healthy"`
}

// HealthResponse is the liveness response of the HTTP surface.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the JSON error envelope of the HTTP surface.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
