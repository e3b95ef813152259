package gcp

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/serviceusage/v1"

	"github.com/outfleet/outfleet/internal/api"
)

// EnableServices requests batch enablement of the given service ids and
// returns the service usage operation handle.
func (c *DefaultClient) EnableServices(
	ctx context.Context,
	projectID string,
	services []string,
) (*api.Operation, error) {
	req := &serviceusage.BatchEnableServicesRequest{ServiceIds: services}

	op, err := c.serviceUsage.Services.BatchEnable("projects/"+projectID, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("batch enable services: %w", err)
	}
	return fromServiceUsageOperation(op), nil
}

// GetServiceUsageOperation fetches a service usage operation by name.
func (c *DefaultClient) GetServiceUsageOperation(ctx context.Context, name string) (*api.Operation, error) {
	op, err := c.serviceUsage.Operations.Get(name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get service usage operation: %w", err)
	}
	return fromServiceUsageOperation(op), nil
}

// ListEnabledServices returns the ids of every service enabled on a project.
func (c *DefaultClient) ListEnabledServices(ctx context.Context, projectID string) ([]string, error) {
	var ids []string

	call := c.serviceUsage.Services.List("projects/" + projectID).Filter("state:ENABLED")
	err := call.Pages(ctx, func(page *serviceusage.ListServicesResponse) error {
		for _, svc := range page.Services {
			if svc.Config != nil {
				ids = append(ids, svc.Config.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list enabled services: %w", err)
	}

	return ids, nil
}

func fromServiceUsageOperation(op *serviceusage.Operation) *api.Operation {
	out := &api.Operation{
		Name: op.Name,
		Done: op.Done,
	}
	if op.Error != nil {
		out.Error = &api.OperationError{
			Code:    strconv.FormatInt(op.Error.Code, 10),
			Message: op.Error.Message,
		}
	}
	return out
}
