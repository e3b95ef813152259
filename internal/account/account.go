// Package account exposes the caller-facing capability surface of a managed
// cloud account. It composes the gcp client with the provisioning core and
// performs the filtering and shaping the presentation layers rely on.
package account

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/outfleet/outfleet/internal/api"
	"github.com/outfleet/outfleet/internal/constants"
	apperrors "github.com/outfleet/outfleet/internal/errors"
	"github.com/outfleet/outfleet/internal/gcp"
	"github.com/outfleet/outfleet/internal/provision"
)

// projectStateActive is the provider lifecycle state of a usable project.
const projectStateActive = "ACTIVE"

// Account is the capability surface over one authenticated cloud account.
type Account struct {
	name      string
	client    gcp.Client
	settings  provision.Settings
	instances *provision.InstanceProvisioner
	projects  *provision.ProjectProvisioner
	health    *provision.HealthChecker
	logger    *slog.Logger
}

// New creates an account facade over the given client. name identifies the
// account to callers; it is display-only.
func New(name string, client gcp.Client, settings provision.Settings, logger *slog.Logger) *Account {
	return &Account{
		name:      name,
		client:    client,
		settings:  settings,
		instances: provision.NewInstanceProvisioner(client, settings, logger),
		projects:  provision.NewProjectProvisioner(client, settings, logger),
		health:    provision.NewHealthChecker(client, settings, logger),
		logger:    logger,
	}
}

// Name returns the account's display identity.
func (a *Account) Name() string {
	return a.name
}

// ListProjects returns the account's managed projects: those carrying the
// identifying label and still in the active lifecycle state. The cloud
// account is the sole source of truth; nothing is read from local state.
func (a *Account) ListProjects(ctx context.Context) ([]api.Project, error) {
	projects, err := a.client.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	managed := make([]api.Project, 0, len(projects))
	for _, p := range projects {
		if p.Labels[a.settings.LabelKey] != a.settings.LabelValue {
			continue
		}
		if p.State != projectStateActive {
			continue
		}
		managed = append(managed, p)
	}
	return managed, nil
}

// CreateProject creates and configures a managed project linked to the given
// billing account.
func (a *Account) CreateProject(ctx context.Context, projectID, billingAccountID string) (*api.Project, error) {
	return a.projects.CreateProject(ctx, projectID, billingAccountID)
}

// CreateServer boots a relay VM in the given project and zone. The returned
// handle is available as soon as the provider accepts the creation; callers
// that need the firewall and static address in place wait on its completion
// signal.
func (a *Account) CreateServer(ctx context.Context, projectID, description, zone string) (*provision.Server, error) {
	return a.instances.CreateInstance(ctx, projectID, description, zone)
}

// DescribeServer fetches the current provider view of one relay VM.
func (a *Account) DescribeServer(ctx context.Context, locator api.InstanceLocator) (*api.Instance, error) {
	inst, err := a.client.GetInstance(ctx, locator)
	if err != nil {
		if gcp.IsNotFound(err) {
			return nil, apperrors.ErrNotFound("server "+locator.Instance+" not found", err)
		}
		return nil, err
	}
	return inst, nil
}

// ListServers returns the managed relay VMs of a project.
func (a *Account) ListServers(ctx context.Context, projectID string) ([]*provision.Server, error) {
	return a.instances.ListServers(ctx, projectID)
}

// ListLocations returns the project's usable zones grouped by region, sorted
// by region name. Zones not reporting UP status are excluded.
func (a *Account) ListLocations(ctx context.Context, projectID string) ([]api.Location, error) {
	zones, err := a.client.ListZones(ctx, projectID)
	if err != nil {
		return nil, err
	}

	byRegion := make(map[string][]api.Zone)
	for _, z := range zones {
		if z.Status != api.ZoneStatusUp {
			continue
		}
		region := z.Region()
		byRegion[region] = append(byRegion[region], z)
	}

	locations := make([]api.Location, 0, len(byRegion))
	for region, zs := range byRegion {
		sort.Slice(zs, func(i, j int) bool { return zs[i].ID < zs[j].ID })
		locations = append(locations, api.Location{Region: region, Zones: zs})
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].Region < locations[j].Region })
	return locations, nil
}

// ListOpenBillingAccounts returns the account's open billing accounts with
// the billingAccounts/ resource prefix stripped down to the bare id.
func (a *Account) ListOpenBillingAccounts(ctx context.Context) ([]api.BillingAccount, error) {
	accounts, err := a.client.ListBillingAccounts(ctx)
	if err != nil {
		return nil, err
	}

	open := make([]api.BillingAccount, 0, len(accounts))
	for _, acct := range accounts {
		if !acct.Open {
			continue
		}
		acct.ID = strings.TrimPrefix(acct.ID, constants.BillingAccountPrefix)
		open = append(open, acct)
	}
	return open, nil
}

// IsProjectHealthy reports whether a project's billing and required services
// are in order.
func (a *Account) IsProjectHealthy(ctx context.Context, projectID string) (bool, error) {
	return a.health.IsProjectHealthy(ctx, projectID)
}

// RepairProject re-runs the project configuration sequence.
func (a *Account) RepairProject(ctx context.Context, projectID, billingAccountID string) error {
	return a.projects.RepairProject(ctx, projectID, billingAccountID)
}

// Drain waits for all in-flight server provisioning continuations.
func (a *Account) Drain() {
	a.instances.Drain()
}
