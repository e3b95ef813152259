// Package gcp implements the cloud control-plane capability consumed by the
// provisioning core. The Client interface mirrors the calls the orchestration
// needs; the default implementation wires the Google Cloud APIs behind it so
// the core stays testable against hand-rolled fakes.
package gcp

import (
	"context"

	"github.com/outfleet/outfleet/internal/api"
)

// Client is the cloud API capability. Every create/update call returns an
// api.Operation handle; every list call returns the full result with
// pagination handled internally.
type Client interface {
	// Resource manager.
	CreateProject(ctx context.Context, projectID, displayName string, labels map[string]string) (*api.Operation, error)
	GetResourceManagerOperation(ctx context.Context, name string) (*api.Operation, error)
	ListProjects(ctx context.Context) ([]api.Project, error)

	// Service usage.
	EnableServices(ctx context.Context, projectID string, services []string) (*api.Operation, error)
	GetServiceUsageOperation(ctx context.Context, name string) (*api.Operation, error)
	ListEnabledServices(ctx context.Context, projectID string) ([]string, error)

	// Billing.
	GetProjectBillingInfo(ctx context.Context, projectID string) (*api.ProjectBillingInfo, error)
	UpdateProjectBillingInfo(ctx context.Context, projectID, billingAccountID string) error
	ListBillingAccounts(ctx context.Context) ([]api.BillingAccount, error)

	// Compute.
	ListZones(ctx context.Context, projectID string) ([]api.Zone, error)
	ListInstances(ctx context.Context, projectID, zone, labelFilter string) ([]api.Instance, error)
	CreateInstance(ctx context.Context, projectID, zone string, spec *api.InstanceSpec) (*api.Operation, error)
	GetInstance(ctx context.Context, locator api.InstanceLocator) (*api.Instance, error)
	ListFirewalls(ctx context.Context, projectID, name string) ([]api.Firewall, error)
	CreateFirewall(ctx context.Context, projectID string, spec *api.FirewallSpec) (*api.Operation, error)
	CreateStaticIP(ctx context.Context, projectID, region, name, address string) (*api.Operation, error)
	GetZoneOperation(ctx context.Context, projectID, zone, name string) (*api.Operation, error)
	GetRegionOperation(ctx context.Context, projectID, region, name string) (*api.Operation, error)
	GetGlobalOperation(ctx context.Context, projectID, name string) (*api.Operation, error)
}
