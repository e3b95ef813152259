package provision

import (
	"context"
	"log/slog"

	"github.com/outfleet/outfleet/internal/api"
	apperrors "github.com/outfleet/outfleet/internal/errors"
	"github.com/outfleet/outfleet/internal/gcp"
)

// ProjectProvisioner drives the project-create flow and the configuration
// sequence (billing link, then service enablement) that makes a project
// usable for relay instances. Configuration doubles as the repair path.
type ProjectProvisioner struct {
	client   gcp.Client
	settings Settings
	logger   *slog.Logger
}

// NewProjectProvisioner creates a project provisioner.
func NewProjectProvisioner(client gcp.Client, settings Settings, logger *slog.Logger) *ProjectProvisioner {
	return &ProjectProvisioner{client: client, settings: settings, logger: logger}
}

// CreateProject submits the project creation, waits it out, then runs the
// configuration sequence. A terminal error on the create operation aborts
// the flow; configuration never runs against a project that failed to
// create.
func (p *ProjectProvisioner) CreateProject(
	ctx context.Context,
	projectID, billingAccountID string,
) (*api.Project, error) {
	op, err := p.client.CreateProject(ctx, projectID, p.settings.ProjectDisplayName, p.settings.Labels())
	if err != nil {
		return nil, apperrors.ErrProjectCreationFailed(projectID, err)
	}

	p.logger.Info("project creation submitted", "project", projectID, "operation", op.Name)

	term, err := WaitOperation(ctx, func(c context.Context) (*api.Operation, error) {
		return p.client.GetResourceManagerOperation(c, op.Name)
	}, p.settings.PollInterval, p.settings.OperationDeadline)
	if err != nil {
		return nil, apperrors.ErrProjectCreationFailed(projectID, err)
	}
	if term.Error != nil {
		return nil, apperrors.ErrProjectCreationFailed(projectID,
			apperrors.ErrOperationFailed(term.Name, opError(term)))
	}

	if err := p.ConfigureProject(ctx, projectID, billingAccountID); err != nil {
		return nil, err
	}

	return &api.Project{
		ID:     projectID,
		Name:   p.settings.ProjectDisplayName,
		Labels: p.settings.Labels(),
	}, nil
}

// ConfigureProject links the billing account and enables the required
// services, in that order. Service enablement requires billing to be linked
// first, so the two steps never run concurrently. Both steps are idempotent
// on the provider side; this is also the repair path.
func (p *ProjectProvisioner) ConfigureProject(ctx context.Context, projectID, billingAccountID string) error {
	if err := p.linkBilling(ctx, projectID, billingAccountID); err != nil {
		return err
	}
	return p.enableServices(ctx, projectID)
}

// RepairProject re-runs the full configuration sequence. It is not
// conditioned on the specific deficiency found; re-linking an already linked
// billing account and re-enabling enabled services are provider no-ops.
func (p *ProjectProvisioner) RepairProject(ctx context.Context, projectID, billingAccountID string) error {
	p.logger.Info("repairing project", "project", projectID)
	return p.ConfigureProject(ctx, projectID, billingAccountID)
}

func (p *ProjectProvisioner) linkBilling(ctx context.Context, projectID, billingAccountID string) error {
	if err := p.client.UpdateProjectBillingInfo(ctx, projectID, billingAccountID); err != nil {
		return apperrors.ErrBillingLinkFailed(projectID, err)
	}
	p.logger.Info("billing account linked", "project", projectID, "billingAccount", billingAccountID)
	return nil
}

func (p *ProjectProvisioner) enableServices(ctx context.Context, projectID string) error {
	op, err := p.client.EnableServices(ctx, projectID, p.settings.RequiredServices)
	if err != nil {
		return apperrors.ErrServiceEnablementFailed(projectID, err)
	}

	term, err := WaitOperation(ctx, func(c context.Context) (*api.Operation, error) {
		return p.client.GetServiceUsageOperation(c, op.Name)
	}, p.settings.PollInterval, p.settings.OperationDeadline)
	if err != nil {
		return apperrors.ErrServiceEnablementFailed(projectID, err)
	}
	if term.Error != nil {
		return apperrors.ErrServiceEnablementFailed(projectID,
			apperrors.ErrOperationFailed(term.Name, opError(term)))
	}

	p.logger.Info("required services enabled", "project", projectID, "services", p.settings.RequiredServices)
	return nil
}
