package provision

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/outfleet/outfleet/internal/api"
)

// fakeClient is a func-field fake of gcp.Client. Unset fields return zero
// values so each test only wires the calls it cares about. Call counters are
// goroutine safe.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	createProjectFunc               func(ctx context.Context, projectID, displayName string, labels map[string]string) (*api.Operation, error)
	getResourceManagerOperationFunc func(ctx context.Context, name string) (*api.Operation, error)
	listProjectsFunc                func(ctx context.Context) ([]api.Project, error)

	enableServicesFunc           func(ctx context.Context, projectID string, services []string) (*api.Operation, error)
	getServiceUsageOperationFunc func(ctx context.Context, name string) (*api.Operation, error)
	listEnabledServicesFunc      func(ctx context.Context, projectID string) ([]string, error)

	getProjectBillingInfoFunc    func(ctx context.Context, projectID string) (*api.ProjectBillingInfo, error)
	updateProjectBillingInfoFunc func(ctx context.Context, projectID, billingAccountID string) error
	listBillingAccountsFunc      func(ctx context.Context) ([]api.BillingAccount, error)

	listZonesFunc      func(ctx context.Context, projectID string) ([]api.Zone, error)
	listInstancesFunc  func(ctx context.Context, projectID, zone, labelFilter string) ([]api.Instance, error)
	createInstanceFunc func(ctx context.Context, projectID, zone string, spec *api.InstanceSpec) (*api.Operation, error)
	getInstanceFunc    func(ctx context.Context, locator api.InstanceLocator) (*api.Instance, error)
	listFirewallsFunc  func(ctx context.Context, projectID, name string) ([]api.Firewall, error)
	createFirewallFunc func(ctx context.Context, projectID string, spec *api.FirewallSpec) (*api.Operation, error)
	createStaticIPFunc func(ctx context.Context, projectID, region, name, address string) (*api.Operation, error)
	getZoneOpFunc      func(ctx context.Context, projectID, zone, name string) (*api.Operation, error)
	getRegionOpFunc    func(ctx context.Context, projectID, region, name string) (*api.Operation, error)
	getGlobalOpFunc    func(ctx context.Context, projectID, name string) (*api.Operation, error)
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: make(map[string]int)}
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeClient) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) CreateProject(ctx context.Context, projectID, displayName string, labels map[string]string) (*api.Operation, error) {
	f.record("CreateProject")
	if f.createProjectFunc != nil {
		return f.createProjectFunc(ctx, projectID, displayName, labels)
	}
	return &api.Operation{Name: "op-create-project", Done: true}, nil
}

func (f *fakeClient) GetResourceManagerOperation(ctx context.Context, name string) (*api.Operation, error) {
	f.record("GetResourceManagerOperation")
	if f.getResourceManagerOperationFunc != nil {
		return f.getResourceManagerOperationFunc(ctx, name)
	}
	return &api.Operation{Name: name, Done: true}, nil
}

func (f *fakeClient) ListProjects(ctx context.Context) ([]api.Project, error) {
	f.record("ListProjects")
	if f.listProjectsFunc != nil {
		return f.listProjectsFunc(ctx)
	}
	return nil, nil
}

func (f *fakeClient) EnableServices(ctx context.Context, projectID string, services []string) (*api.Operation, error) {
	f.record("EnableServices")
	if f.enableServicesFunc != nil {
		return f.enableServicesFunc(ctx, projectID, services)
	}
	return &api.Operation{Name: "op-enable-services", Done: true}, nil
}

func (f *fakeClient) GetServiceUsageOperation(ctx context.Context, name string) (*api.Operation, error) {
	f.record("GetServiceUsageOperation")
	if f.getServiceUsageOperationFunc != nil {
		return f.getServiceUsageOperationFunc(ctx, name)
	}
	return &api.Operation{Name: name, Done: true}, nil
}

func (f *fakeClient) ListEnabledServices(ctx context.Context, projectID string) ([]string, error) {
	f.record("ListEnabledServices")
	if f.listEnabledServicesFunc != nil {
		return f.listEnabledServicesFunc(ctx, projectID)
	}
	return nil, nil
}

func (f *fakeClient) GetProjectBillingInfo(ctx context.Context, projectID string) (*api.ProjectBillingInfo, error) {
	f.record("GetProjectBillingInfo")
	if f.getProjectBillingInfoFunc != nil {
		return f.getProjectBillingInfoFunc(ctx, projectID)
	}
	return &api.ProjectBillingInfo{BillingEnabled: true}, nil
}

func (f *fakeClient) UpdateProjectBillingInfo(ctx context.Context, projectID, billingAccountID string) error {
	f.record("UpdateProjectBillingInfo")
	if f.updateProjectBillingInfoFunc != nil {
		return f.updateProjectBillingInfoFunc(ctx, projectID, billingAccountID)
	}
	return nil
}

func (f *fakeClient) ListBillingAccounts(ctx context.Context) ([]api.BillingAccount, error) {
	f.record("ListBillingAccounts")
	if f.listBillingAccountsFunc != nil {
		return f.listBillingAccountsFunc(ctx)
	}
	return nil, nil
}

func (f *fakeClient) ListZones(ctx context.Context, projectID string) ([]api.Zone, error) {
	f.record("ListZones")
	if f.listZonesFunc != nil {
		return f.listZonesFunc(ctx, projectID)
	}
	return nil, nil
}

func (f *fakeClient) ListInstances(ctx context.Context, projectID, zone, labelFilter string) ([]api.Instance, error) {
	f.record("ListInstances")
	if f.listInstancesFunc != nil {
		return f.listInstancesFunc(ctx, projectID, zone, labelFilter)
	}
	return nil, nil
}

func (f *fakeClient) CreateInstance(ctx context.Context, projectID, zone string, spec *api.InstanceSpec) (*api.Operation, error) {
	f.record("CreateInstance")
	if f.createInstanceFunc != nil {
		return f.createInstanceFunc(ctx, projectID, zone, spec)
	}
	return &api.Operation{Name: "op-create-instance", Done: true, TargetID: "instance-1"}, nil
}

func (f *fakeClient) GetInstance(ctx context.Context, locator api.InstanceLocator) (*api.Instance, error) {
	f.record("GetInstance")
	if f.getInstanceFunc != nil {
		return f.getInstanceFunc(ctx, locator)
	}
	return &api.Instance{ID: locator.Instance, Zone: locator.Zone}, nil
}

func (f *fakeClient) ListFirewalls(ctx context.Context, projectID, name string) ([]api.Firewall, error) {
	f.record("ListFirewalls")
	if f.listFirewallsFunc != nil {
		return f.listFirewallsFunc(ctx, projectID, name)
	}
	return nil, nil
}

func (f *fakeClient) CreateFirewall(ctx context.Context, projectID string, spec *api.FirewallSpec) (*api.Operation, error) {
	f.record("CreateFirewall")
	if f.createFirewallFunc != nil {
		return f.createFirewallFunc(ctx, projectID, spec)
	}
	return &api.Operation{Name: "op-create-firewall", Done: true}, nil
}

func (f *fakeClient) CreateStaticIP(ctx context.Context, projectID, region, name, address string) (*api.Operation, error) {
	f.record("CreateStaticIP")
	if f.createStaticIPFunc != nil {
		return f.createStaticIPFunc(ctx, projectID, region, name, address)
	}
	return &api.Operation{Name: "op-create-address", Done: true}, nil
}

func (f *fakeClient) GetZoneOperation(ctx context.Context, projectID, zone, name string) (*api.Operation, error) {
	f.record("GetZoneOperation")
	if f.getZoneOpFunc != nil {
		return f.getZoneOpFunc(ctx, projectID, zone, name)
	}
	return &api.Operation{Name: name, Done: true}, nil
}

func (f *fakeClient) GetRegionOperation(ctx context.Context, projectID, region, name string) (*api.Operation, error) {
	f.record("GetRegionOperation")
	if f.getRegionOpFunc != nil {
		return f.getRegionOpFunc(ctx, projectID, region, name)
	}
	return &api.Operation{Name: name, Done: true}, nil
}

func (f *fakeClient) GetGlobalOperation(ctx context.Context, projectID, name string) (*api.Operation, error) {
	f.record("GetGlobalOperation")
	if f.getGlobalOpFunc != nil {
		return f.getGlobalOpFunc(ctx, projectID, name)
	}
	return &api.Operation{Name: name, Done: true}, nil
}

// testLogger returns a logger that discards everything.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testSettings returns stock settings with a poll interval short enough for
// tests.
func testSettings() Settings {
	s := DefaultSettings()
	s.PollInterval = time.Millisecond
	s.OperationDeadline = time.Second
	return s
}
