// Package api defines the value types exchanged between the provisioning
// core, the account facade, and the presentation surfaces.
package api

import "strings"

// Project is a cloud project managed by outfleet. Projects are identified by
// the outline=true label on the provider side; outfleet stores no ownership
// metadata of its own.
type Project struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	// State is the provider lifecycle state (ACTIVE, DELETE_REQUESTED, ...).
	State string `json:"state,omitempty"`
}

// BillingAccount is a provider billing account, read-only from outfleet's
// perspective. The account facade strips the billingAccounts/ resource
// prefix from ID before handing accounts to callers.
type BillingAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Open bool   `json:"open"`
}

// Zone is a compute zone. A zone belongs to exactly one region, recoverable
// from the zone id suffix (us-central1-a -> us-central1).
type Zone struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ZoneStatusUp is the provider status of a usable zone.
const ZoneStatusUp = "UP"

// Region returns the region a zone belongs to, derived from the zone id by
// dropping the trailing zone letter.
func (z Zone) Region() string {
	if i := strings.LastIndex(z.ID, "-"); i > 0 {
		return z.ID[:i]
	}
	return z.ID
}

// Location groups the usable zones of one region.
type Location struct {
	Region string `json:"region"`
	Zones  []Zone `json:"zones"`
}

// InstanceLocator is the stable key addressing a VM across all operations.
// Instance is the provider-assigned instance id or the instance name; the
// compute API accepts both.
type InstanceLocator struct {
	ProjectID string `json:"projectId"`
	Zone      string `json:"zone"`
	Instance  string `json:"instance"`
}

// AccessConfig is the external reachability of one network interface. NatIP
// is the ephemeral or static external address, empty when none is assigned.
type AccessConfig struct {
	Type  string `json:"type,omitempty"`
	NatIP string `json:"natIp,omitempty"`
}

// NetworkInterface is one NIC of an instance.
type NetworkInterface struct {
	AccessConfigs []AccessConfig `json:"accessConfigs,omitempty"`
}

// Instance is a provisioned VM as reported by the provider.
type Instance struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Zone        string             `json:"zone"`
	Labels      map[string]string  `json:"labels,omitempty"`
	Interfaces  []NetworkInterface `json:"networkInterfaces,omitempty"`
}

// ExternalIP returns the external address of the first access configuration
// of the first interface, or "" when the instance has none.
func (i *Instance) ExternalIP() string {
	if len(i.Interfaces) == 0 || len(i.Interfaces[0].AccessConfigs) == 0 {
		return ""
	}
	return i.Interfaces[0].AccessConfigs[0].NatIP
}

// InstanceSpec describes the VM to create.
type InstanceSpec struct {
	Name        string
	Description string
	MachineType string
	BootImage   string
	NetworkTags []string
	Labels      map[string]string
	Metadata    map[string]string
}

// Firewall is an ingress rule, reduced to what the firewall manager needs to
// decide idempotency.
type Firewall struct {
	Name string `json:"name"`
}

// FirewallSpec describes the ingress rule to create.
type FirewallSpec struct {
	Name         string
	SourceRanges []string
	TargetTags   []string
	// Protocols maps an IP protocol (or "all") to allowed ports; an empty
	// port list allows every port of that protocol.
	Protocols map[string][]string
}

// ProjectBillingInfo is the billing linkage of a project.
type ProjectBillingInfo struct {
	BillingAccountID string `json:"billingAccountId,omitempty"`
	BillingEnabled   bool   `json:"billingEnabled"`
}

// Operation is the provider handle for an asynchronous action. Terminal state
// is Done == true; Error may be set even when Done is true, signaling logical
// failure distinct from polling failure.
type Operation struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	TargetID string          `json:"targetId,omitempty"`
	Error    *OperationError `json:"error,omitempty"`
}

// OperationError is the provider error payload of a terminal operation.
type OperationError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e *OperationError) String() string {
	if e == nil {
		return ""
	}
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}
