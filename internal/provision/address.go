package provision

import (
	"context"
	"errors"
	"log/slog"

	"github.com/outfleet/outfleet/internal/api"
	apperrors "github.com/outfleet/outfleet/internal/errors"
	"github.com/outfleet/outfleet/internal/gcp"
)

// AddressManager converts an instance's ephemeral external address into a
// reserved static one.
type AddressManager struct {
	client   gcp.Client
	settings Settings
	logger   *slog.Logger
}

// NewAddressManager creates an address manager.
func NewAddressManager(client gcp.Client, settings Settings, logger *slog.Logger) *AddressManager {
	return &AddressManager{client: client, settings: settings, logger: logger}
}

// PromoteEphemeralIP reads the instance's current ephemeral external address
// and reserves a static address bound to that exact IP value in the
// instance's region. The instance must already have an ephemeral address,
// which holds once its creation operation is done. The VM is not rolled back
// on failure; cleanup is an operator decision.
func (m *AddressManager) PromoteEphemeralIP(ctx context.Context, locator api.InstanceLocator) error {
	inst, err := m.client.GetInstance(ctx, locator)
	if err != nil {
		return apperrors.ErrIPPromotionFailed(locator.Instance, err)
	}

	ip := inst.ExternalIP()
	if ip == "" {
		return apperrors.ErrIPPromotionFailed(inst.Name,
			errors.New("instance has no ephemeral external address"))
	}

	region := api.Zone{ID: locator.Zone}.Region()
	op, err := m.client.CreateStaticIP(ctx, locator.ProjectID, region, inst.Name, ip)
	if err != nil {
		return apperrors.ErrIPPromotionFailed(inst.Name, err)
	}

	term, err := WaitOperation(ctx, func(c context.Context) (*api.Operation, error) {
		return m.client.GetRegionOperation(c, locator.ProjectID, region, op.Name)
	}, m.settings.PollInterval, m.settings.OperationDeadline)
	if err != nil {
		return apperrors.ErrIPPromotionFailed(inst.Name, err)
	}
	if term.Error != nil {
		return apperrors.ErrIPPromotionFailed(inst.Name,
			apperrors.ErrOperationFailed(term.Name, opError(term)))
	}

	m.logger.Info("ephemeral address promoted",
		"project", locator.ProjectID, "instance", inst.Name, "ip", ip)
	return nil
}
