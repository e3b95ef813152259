// Package provision contains the orchestration core: the operation poller,
// the firewall and address managers, and the instance and project
// provisioners that drive a handful of long-running cloud operations to one
// coherent result.
package provision

import (
	"slices"
	"time"

	"github.com/outfleet/outfleet/internal/constants"
)

// Settings is the static configuration injected into the provisioners.
// Defaults come from the constants package; tests and config override fields
// as needed.
type Settings struct {
	PollInterval      time.Duration
	OperationDeadline time.Duration

	ProjectDisplayName string
	RequiredServices   []string

	InstanceNamePrefix string
	MachineType        string
	BootImage          string
	// InstallPayload is the opaque script injected into new instances.
	InstallPayload string

	FirewallName      string
	FirewallTargetTag string

	LabelKey   string
	LabelValue string
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		PollInterval:       constants.DefaultPollInterval,
		OperationDeadline:  constants.DefaultOperationDeadline,
		ProjectDisplayName: constants.ProjectDisplayName,
		RequiredServices:   slices.Clone(constants.RequiredServices),
		InstanceNamePrefix: constants.InstanceNamePrefix,
		MachineType:        constants.DefaultMachineType,
		BootImage:          constants.DefaultBootImage,
		FirewallName:       constants.FirewallName,
		FirewallTargetTag:  constants.FirewallTargetTag,
		LabelKey:           constants.LabelKey,
		LabelValue:         constants.LabelValue,
	}
}

// LabelFilter returns the provider filter expression selecting managed
// instances.
func (s Settings) LabelFilter() string {
	return "labels." + s.LabelKey + "=" + s.LabelValue
}

// Labels returns the label set applied to every managed resource.
func (s Settings) Labels() map[string]string {
	return map[string]string{s.LabelKey: s.LabelValue}
}
