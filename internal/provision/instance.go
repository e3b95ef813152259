package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/outfleet/outfleet/internal/api"
	"github.com/outfleet/outfleet/internal/constants"
	apperrors "github.com/outfleet/outfleet/internal/errors"
	"github.com/outfleet/outfleet/internal/gcp"
)

// Server is the handle returned to callers before provisioning finishes.
// Completion resolves exactly once, after the firewall-ensure and the
// IP-promotion continuations have both concluded; either failure resolves it
// to that failure.
type Server struct {
	ID         string
	Name       string
	Locator    api.InstanceLocator
	Completion *Signal
}

// InstanceProvisioner creates relay VMs and composes the follow-up work
// (firewall, static address) that turns a booted instance into a working
// relay.
type InstanceProvisioner struct {
	client    gcp.Client
	firewalls *FirewallManager
	addresses *AddressManager
	settings  Settings
	logger    *slog.Logger

	// now is the clock used for instance naming; replaced in tests.
	now func() time.Time
	// pending tracks in-flight continuations so Drain can join them.
	pending sync.WaitGroup
}

// NewInstanceProvisioner creates an instance provisioner with its firewall
// and address collaborators.
func NewInstanceProvisioner(client gcp.Client, settings Settings, logger *slog.Logger) *InstanceProvisioner {
	return &InstanceProvisioner{
		client:    client,
		firewalls: NewFirewallManager(client, settings, logger),
		addresses: NewAddressManager(client, settings, logger),
		settings:  settings,
		logger:    logger,
		now:       time.Now,
	}
}

// instanceName derives the instance name from the wall clock at second
// granularity (outline-YYYYMMDD-HHMMSS). Two creations started within the
// same calendar second collide; acceptable at the expected call rate.
func (p *InstanceProvisioner) instanceName() string {
	return fmt.Sprintf("%s-%s",
		p.settings.InstanceNamePrefix,
		p.now().UTC().Format(constants.InstanceNameTimeFormat))
}

// CreateInstance submits the VM creation and returns a Server handle as soon
// as the provider accepts the request and assigns the instance id. Two
// continuations then run concurrently: waiting out the zone operation and
// promoting the ephemeral address, and ensuring the firewall rule. The
// handle's completion signal resolves with the join of both; the first
// failure wins. The passed context governs the continuations, so canceling
// it aborts provisioning observably through the signal.
func (p *InstanceProvisioner) CreateInstance(
	ctx context.Context,
	projectID, description, zone string,
) (*Server, error) {
	name := p.instanceName()

	spec := &api.InstanceSpec{
		Name:        name,
		Description: description,
		MachineType: p.settings.MachineType,
		BootImage:   p.settings.BootImage,
		NetworkTags: []string{p.settings.FirewallTargetTag},
		Labels:      p.settings.Labels(),
		Metadata: map[string]string{
			constants.MetadataInstallKey:         p.settings.InstallPayload,
			constants.MetadataGuestAttributesKey: "TRUE",
		},
	}

	op, err := p.client.CreateInstance(ctx, projectID, zone, spec)
	if err != nil {
		return nil, apperrors.ErrInstanceCreationFailed(name, err)
	}
	if op.TargetID == "" {
		return nil, apperrors.ErrInstanceCreationFailed(name,
			errors.New("create operation carries no target instance id"))
	}

	locator := api.InstanceLocator{
		ProjectID: projectID,
		Zone:      zone,
		Instance:  op.TargetID,
	}
	server := &Server{
		ID:         op.TargetID,
		Name:       name,
		Locator:    locator,
		Completion: NewSignal(),
	}

	p.logger.Info("instance creation submitted",
		"project", projectID, "zone", zone, "instance", name, "operation", op.Name)

	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		server.Completion.Resolve(p.finishProvisioning(ctx, locator, op.Name))
	}()

	return server, nil
}

// finishProvisioning joins the two independent continuations of a freshly
// submitted instance. They have no ordering requirement relative to each
// other and interleave freely.
func (p *InstanceProvisioner) finishProvisioning(
	ctx context.Context,
	locator api.InstanceLocator,
	operationName string,
) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		term, err := WaitOperation(gctx, func(c context.Context) (*api.Operation, error) {
			return p.client.GetZoneOperation(c, locator.ProjectID, locator.Zone, operationName)
		}, p.settings.PollInterval, p.settings.OperationDeadline)
		if err != nil {
			return apperrors.ErrInstanceCreationFailed(locator.Instance, err)
		}
		if term.Error != nil {
			return apperrors.ErrInstanceCreationFailed(locator.Instance,
				apperrors.ErrOperationFailed(term.Name, opError(term)))
		}
		return p.addresses.PromoteEphemeralIP(gctx, locator)
	})

	g.Go(func() error {
		return p.firewalls.EnsureFirewall(gctx, locator.ProjectID)
	})

	if err := g.Wait(); err != nil {
		p.logger.Error("instance provisioning failed",
			"project", locator.ProjectID, "instance", locator.Instance, "error", err)
		return err
	}

	p.logger.Info("instance provisioned",
		"project", locator.ProjectID, "instance", locator.Instance)
	return nil
}

// ListServers enumerates the project's zones and queries each in parallel
// for managed instances. Returned handles carry already-resolved completion
// signals; these servers are not mid-provisioning.
func (p *InstanceProvisioner) ListServers(ctx context.Context, projectID string) ([]*Server, error) {
	zones, err := p.client.ListZones(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		servers []*Server
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, zone := range zones {
		g.Go(func() error {
			instances, err := p.client.ListInstances(gctx, projectID, zone.ID, p.settings.LabelFilter())
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for _, inst := range instances {
				servers = append(servers, &Server{
					ID:   inst.ID,
					Name: inst.Name,
					Locator: api.InstanceLocator{
						ProjectID: projectID,
						Zone:      inst.Zone,
						Instance:  inst.ID,
					},
					Completion: ResolvedSignal(nil),
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return servers, nil
}

// Drain blocks until every in-flight continuation has resolved its signal.
// Used on shutdown and in tests.
func (p *InstanceProvisioner) Drain() {
	p.pending.Wait()
}
