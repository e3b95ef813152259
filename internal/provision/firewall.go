package provision

import (
	"context"
	"log/slog"

	"github.com/outfleet/outfleet/internal/api"
	apperrors "github.com/outfleet/outfleet/internal/errors"
	"github.com/outfleet/outfleet/internal/gcp"
)

// FirewallManager idempotently ensures the configured ingress rule exists for
// tagged relay instances.
type FirewallManager struct {
	client   gcp.Client
	settings Settings
	logger   *slog.Logger
}

// NewFirewallManager creates a firewall manager.
func NewFirewallManager(client gcp.Client, settings Settings, logger *slog.Logger) *FirewallManager {
	return &FirewallManager{client: client, settings: settings, logger: logger}
}

// EnsureFirewall creates the all-protocol 0.0.0.0/0 ingress rule targeting
// the configured tag unless a rule with the configured name already exists.
// A second call against a configured project costs one list query and
// nothing else. Terminal failure of the create operation is surfaced as a
// typed error, never only logged.
func (m *FirewallManager) EnsureFirewall(ctx context.Context, projectID string) error {
	existing, err := m.client.ListFirewalls(ctx, projectID, m.settings.FirewallName)
	if err != nil {
		return apperrors.ErrFirewallCreationFailed(m.settings.FirewallName, err)
	}
	if len(existing) > 0 {
		m.logger.Debug("firewall already configured",
			"project", projectID, "firewall", m.settings.FirewallName)
		return nil
	}

	spec := &api.FirewallSpec{
		Name:         m.settings.FirewallName,
		SourceRanges: []string{"0.0.0.0/0"},
		TargetTags:   []string{m.settings.FirewallTargetTag},
		Protocols:    map[string][]string{"all": nil},
	}

	op, err := m.client.CreateFirewall(ctx, projectID, spec)
	if err != nil {
		// A concurrent ensure may have won the insert race.
		if gcp.IsAlreadyExists(err) {
			m.logger.Debug("firewall created concurrently",
				"project", projectID, "firewall", m.settings.FirewallName)
			return nil
		}
		return apperrors.ErrFirewallCreationFailed(m.settings.FirewallName, err)
	}

	term, err := WaitOperation(ctx, func(c context.Context) (*api.Operation, error) {
		return m.client.GetGlobalOperation(c, projectID, op.Name)
	}, m.settings.PollInterval, m.settings.OperationDeadline)
	if err != nil {
		return apperrors.ErrFirewallCreationFailed(m.settings.FirewallName, err)
	}
	if term.Error != nil {
		return apperrors.ErrFirewallCreationFailed(m.settings.FirewallName,
			apperrors.ErrOperationFailed(term.Name, opError(term)))
	}

	m.logger.Info("firewall created", "project", projectID, "firewall", m.settings.FirewallName)
	return nil
}
