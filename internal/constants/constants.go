// Package constants provides the static configuration data of outfleet:
// label conventions, provisioning defaults, poll intervals and deadlines.
// Values here are defaults only; the provisioners receive them through
// provision.Settings so tests and config can override them.
package constants

import (
	"path/filepath"
	"time"
)

// ProjectName is the canonical name of this tool, used for the CLI binary
// and the env var prefix.
const ProjectName = "outfleet"

const (
	// LabelKey/LabelValue form the label convention identifying resources
	// managed by outfleet. The cloud account is the sole source of truth;
	// nothing else marks ownership.
	LabelKey   = "outline"
	LabelValue = "true"

	// InstanceNamePrefix and InstanceNameTimeFormat produce instance names
	// of the form outline-YYYYMMDD-HHMMSS. Second granularity: two creations
	// started within the same calendar second collide.
	InstanceNamePrefix     = "outline"
	InstanceNameTimeFormat = "20060102-150405"

	// ProjectDisplayName is the fixed display name of projects this tool
	// creates.
	ProjectDisplayName = "Outline servers"

	// FirewallName is the fixed name of the ingress rule; FirewallTargetTag
	// is the network tag carried by every relay instance the rule matches.
	FirewallName      = "outline"
	FirewallTargetTag = "outline"

	// DefaultMachineType and DefaultBootImage size the relay VM.
	DefaultMachineType = "e2-micro"
	DefaultBootImage   = "projects/ubuntu-os-cloud/global/images/family/ubuntu-2204-lts"

	// MetadataInstallKey carries the opaque install payload injected into a
	// new instance; MetadataGuestAttributesKey turns on guest attributes so
	// the install script can report back.
	MetadataInstallKey         = "user-data"
	MetadataGuestAttributesKey = "enable-guest-attributes"

	// DefaultPollInterval is how often a pending operation is re-queried;
	// DefaultOperationDeadline bounds a single poll loop.
	DefaultPollInterval      = 2 * time.Second
	DefaultOperationDeadline = 5 * time.Minute
)

// RequiredServices are the provider APIs a project must have enabled before
// relay instances can be provisioned in it.
var RequiredServices = []string{
	"compute.googleapis.com",
	"serviceusage.googleapis.com",
	"cloudbilling.googleapis.com",
}

// BillingAccountPrefix is the resource-name prefix the billing API puts in
// front of bare account ids.
const BillingAccountPrefix = "billingAccounts/"

const (
	// ConfigDirName is the per-user configuration directory under $HOME.
	ConfigDirName = ".outfleet"
	// ConfigFileName is the YAML config file inside ConfigDirName.
	ConfigFileName = "config.yaml"
	// KeystoreFileName is the YAML metadata store inside ConfigDirName.
	KeystoreFileName = "keystore.yaml"

	ConfigDirPermissions  = 0o700
	ConfigFilePermissions = 0o600

	// DefaultPort is the HTTP surface listen port.
	DefaultPort = 8787
)

// ConfigDirPath returns the configuration directory for the given home dir.
func ConfigDirPath(homeDir string) string {
	return filepath.Join(homeDir, ConfigDirName)
}
