// Package testutil provides shared testing utilities and fixture builders.
package testutil

import (
	"github.com/outfleet/outfleet/internal/api"
)

// InstanceBuilder provides a fluent interface for building test instances.
type InstanceBuilder struct {
	instance *api.Instance
}

// NewInstanceBuilder creates a new InstanceBuilder with sensible defaults.
func NewInstanceBuilder() *InstanceBuilder {
	return &InstanceBuilder{
		instance: &api.Instance{
			ID:   "1234567890",
			Name: "outline-20260829-101500",
			Zone: "us-central1-a",
			Labels: map[string]string{
				"outline": "true",
			},
		},
	}
}

// WithID sets the instance id.
func (b *InstanceBuilder) WithID(id string) *InstanceBuilder {
	b.instance.ID = id
	return b
}

// WithName sets the instance name.
func (b *InstanceBuilder) WithName(name string) *InstanceBuilder {
	b.instance.Name = name
	return b
}

// WithZone sets the instance zone.
func (b *InstanceBuilder) WithZone(zone string) *InstanceBuilder {
	b.instance.Zone = zone
	return b
}

// WithEphemeralIP attaches a NIC with an ephemeral external address.
func (b *InstanceBuilder) WithEphemeralIP(ip string) *InstanceBuilder {
	b.instance.Interfaces = []api.NetworkInterface{{
		AccessConfigs: []api.AccessConfig{{Type: "ONE_TO_ONE_NAT", NatIP: ip}},
	}}
	return b
}

// WithoutIP attaches a NIC that has no access config.
func (b *InstanceBuilder) WithoutIP() *InstanceBuilder {
	b.instance.Interfaces = []api.NetworkInterface{{}}
	return b
}

// Build returns the constructed Instance.
func (b *InstanceBuilder) Build() *api.Instance {
	return b.instance
}

// DoneOperation returns a terminal successful operation.
func DoneOperation(name string) *api.Operation {
	return &api.Operation{Name: name, Done: true}
}

// DoneOperationWithTarget returns a terminal operation carrying a target id.
func DoneOperationWithTarget(name, targetID string) *api.Operation {
	return &api.Operation{Name: name, Done: true, TargetID: targetID}
}

// FailedOperation returns a terminal operation carrying a provider error.
func FailedOperation(name, code, message string) *api.Operation {
	return &api.Operation{
		Name: name,
		Done: true,
		Error: &api.OperationError{
			Code:    code,
			Message: message,
		},
	}
}

// PendingOperation returns an operation that is not yet terminal.
func PendingOperation(name string) *api.Operation {
	return &api.Operation{Name: name}
}
