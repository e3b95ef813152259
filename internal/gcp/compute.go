package gcp

import (
	"context"
	"fmt"
	"maps"
	"path"
	"slices"
	"strconv"

	"google.golang.org/api/compute/v1"

	"github.com/outfleet/outfleet/internal/api"
)

const operationStatusDone = "DONE"

// ListZones returns every compute zone of a project with its status.
func (c *DefaultClient) ListZones(ctx context.Context, projectID string) ([]api.Zone, error) {
	var zones []api.Zone

	err := c.compute.Zones.List(projectID).Pages(ctx, func(page *compute.ZoneList) error {
		for _, z := range page.Items {
			zones = append(zones, api.Zone{ID: z.Name, Status: z.Status})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}

	return zones, nil
}

// ListInstances returns the instances of one zone matching the given label
// filter expression (e.g. labels.outline=true).
func (c *DefaultClient) ListInstances(ctx context.Context, projectID, zone, labelFilter string) ([]api.Instance, error) {
	var instances []api.Instance

	call := c.compute.Instances.List(projectID, zone)
	if labelFilter != "" {
		call = call.Filter(labelFilter)
	}
	err := call.Pages(ctx, func(page *compute.InstanceList) error {
		for _, inst := range page.Items {
			instances = append(instances, fromComputeInstance(inst))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list instances in %s: %w", zone, err)
	}

	return instances, nil
}

// CreateInstance submits an instance-create request and returns the
// zone-scoped operation handle. TargetID carries the provider-assigned
// instance id.
func (c *DefaultClient) CreateInstance(
	ctx context.Context,
	projectID, zone string,
	spec *api.InstanceSpec,
) (*api.Operation, error) {
	inst := &compute.Instance{
		Name:        spec.Name,
		Description: spec.Description,
		MachineType: fmt.Sprintf("zones/%s/machineTypes/%s", zone, spec.MachineType),
		Disks: []*compute.AttachedDisk{{
			Boot:       true,
			AutoDelete: true,
			InitializeParams: &compute.AttachedDiskInitializeParams{
				SourceImage: spec.BootImage,
			},
		}},
		NetworkInterfaces: []*compute.NetworkInterface{{
			Network: "global/networks/default",
			AccessConfigs: []*compute.AccessConfig{{
				Name: "External NAT",
				Type: "ONE_TO_ONE_NAT",
			}},
		}},
		Labels:   spec.Labels,
		Metadata: toComputeMetadata(spec.Metadata),
	}
	if len(spec.NetworkTags) > 0 {
		inst.Tags = &compute.Tags{Items: spec.NetworkTags}
	}

	op, err := c.compute.Instances.Insert(projectID, zone, inst).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert instance %s: %w", spec.Name, err)
	}
	return fromComputeOperation(op), nil
}

// GetInstance fetches one instance by locator.
func (c *DefaultClient) GetInstance(ctx context.Context, locator api.InstanceLocator) (*api.Instance, error) {
	inst, err := c.compute.Instances.Get(locator.ProjectID, locator.Zone, locator.Instance).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get instance %s: %w", locator.Instance, err)
	}
	out := fromComputeInstance(inst)
	return &out, nil
}

// ListFirewalls returns the firewalls of a project matching the given name.
func (c *DefaultClient) ListFirewalls(ctx context.Context, projectID, name string) ([]api.Firewall, error) {
	var firewalls []api.Firewall

	call := c.compute.Firewalls.List(projectID)
	if name != "" {
		call = call.Filter(fmt.Sprintf("name=%s", name))
	}
	err := call.Pages(ctx, func(page *compute.FirewallList) error {
		for _, fw := range page.Items {
			firewalls = append(firewalls, api.Firewall{Name: fw.Name})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list firewalls: %w", err)
	}

	return firewalls, nil
}

// CreateFirewall submits an ingress-rule create request and returns the
// global operation handle.
func (c *DefaultClient) CreateFirewall(ctx context.Context, projectID string, spec *api.FirewallSpec) (*api.Operation, error) {
	fw := &compute.Firewall{
		Name:         spec.Name,
		Direction:    "INGRESS",
		SourceRanges: spec.SourceRanges,
		TargetTags:   spec.TargetTags,
	}
	for _, protocol := range slices.Sorted(maps.Keys(spec.Protocols)) {
		fw.Allowed = append(fw.Allowed, &compute.FirewallAllowed{
			IPProtocol: protocol,
			Ports:      spec.Protocols[protocol],
		})
	}

	op, err := c.compute.Firewalls.Insert(projectID, fw).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert firewall %s: %w", spec.Name, err)
	}
	return fromComputeOperation(op), nil
}

// CreateStaticIP reserves a static external address bound to the given IP
// value and returns the region operation handle.
func (c *DefaultClient) CreateStaticIP(ctx context.Context, projectID, region, name, address string) (*api.Operation, error) {
	addr := &compute.Address{
		Name:        name,
		Address:     address,
		AddressType: "EXTERNAL",
	}

	op, err := c.compute.Addresses.Insert(projectID, region, addr).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert address %s: %w", name, err)
	}
	return fromComputeOperation(op), nil
}

// GetZoneOperation fetches a zone-scoped compute operation by name.
func (c *DefaultClient) GetZoneOperation(ctx context.Context, projectID, zone, name string) (*api.Operation, error) {
	op, err := c.compute.ZoneOperations.Get(projectID, zone, name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get zone operation: %w", err)
	}
	return fromComputeOperation(op), nil
}

// GetRegionOperation fetches a region-scoped compute operation by name.
func (c *DefaultClient) GetRegionOperation(ctx context.Context, projectID, region, name string) (*api.Operation, error) {
	op, err := c.compute.RegionOperations.Get(projectID, region, name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get region operation: %w", err)
	}
	return fromComputeOperation(op), nil
}

// GetGlobalOperation fetches a global compute operation by name.
func (c *DefaultClient) GetGlobalOperation(ctx context.Context, projectID, name string) (*api.Operation, error) {
	op, err := c.compute.GlobalOperations.Get(projectID, name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get global operation: %w", err)
	}
	return fromComputeOperation(op), nil
}

func fromComputeInstance(inst *compute.Instance) api.Instance {
	out := api.Instance{
		ID:          strconv.FormatUint(inst.Id, 10),
		Name:        inst.Name,
		Description: inst.Description,
		Zone:        path.Base(inst.Zone),
		Labels:      inst.Labels,
	}
	for _, nic := range inst.NetworkInterfaces {
		var iface api.NetworkInterface
		for _, ac := range nic.AccessConfigs {
			iface.AccessConfigs = append(iface.AccessConfigs, api.AccessConfig{
				Type:  ac.Type,
				NatIP: ac.NatIP,
			})
		}
		out.Interfaces = append(out.Interfaces, iface)
	}
	return out
}

func fromComputeOperation(op *compute.Operation) *api.Operation {
	out := &api.Operation{
		Name: op.Name,
		Done: op.Status == operationStatusDone,
	}
	if op.TargetId != 0 {
		out.TargetID = strconv.FormatUint(op.TargetId, 10)
	}
	if op.Error != nil && len(op.Error.Errors) > 0 {
		first := op.Error.Errors[0]
		out.Error = &api.OperationError{Code: first.Code, Message: first.Message}
	}
	return out
}

func toComputeMetadata(items map[string]string) *compute.Metadata {
	if len(items) == 0 {
		return nil
	}
	md := &compute.Metadata{}
	for _, key := range slices.Sorted(maps.Keys(items)) {
		value := items[key]
		md.Items = append(md.Items, &compute.MetadataItems{Key: key, Value: &value})
	}
	return md
}
