package provision

import (
	"context"
	"log/slog"
	"slices"

	"github.com/outfleet/outfleet/internal/gcp"
)

// HealthChecker inspects an existing project's billing linkage and enabled
// services. It has no side effects; repair goes through ProjectProvisioner.
type HealthChecker struct {
	client   gcp.Client
	settings Settings
	logger   *slog.Logger
}

// NewHealthChecker creates a health checker.
func NewHealthChecker(client gcp.Client, settings Settings, logger *slog.Logger) *HealthChecker {
	return &HealthChecker{client: client, settings: settings, logger: logger}
}

// IsProjectHealthy reports whether billing is enabled and every required
// service appears in the project's enabled-services list.
func (h *HealthChecker) IsProjectHealthy(ctx context.Context, projectID string) (bool, error) {
	billing, err := h.client.GetProjectBillingInfo(ctx, projectID)
	if err != nil {
		return false, err
	}
	if !billing.BillingEnabled {
		h.logger.Debug("project billing disabled", "project", projectID)
		return false, nil
	}

	enabled, err := h.client.ListEnabledServices(ctx, projectID)
	if err != nil {
		return false, err
	}
	for _, required := range h.settings.RequiredServices {
		if !slices.Contains(enabled, required) {
			h.logger.Debug("required service not enabled", "project", projectID, "service", required)
			return false, nil
		}
	}
	return true, nil
}
