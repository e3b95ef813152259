package gcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"google.golang.org/api/cloudresourcemanager/v3"
	"google.golang.org/api/iterator"

	"github.com/outfleet/outfleet/internal/api"
)

// CreateProject submits a project-create request and returns the resource
// manager operation handle. The caller drives it to completion.
func (c *DefaultClient) CreateProject(
	ctx context.Context,
	projectID, displayName string,
	labels map[string]string,
) (*api.Operation, error) {
	project := &cloudresourcemanager.Project{
		ProjectId:   projectID,
		DisplayName: displayName,
		Labels:      labels,
	}

	op, err := c.resourceMgr.Projects.Create(project).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create project %s: %w", projectID, err)
	}
	return fromResourceManagerOperation(op), nil
}

// GetResourceManagerOperation fetches a resource manager operation by name.
func (c *DefaultClient) GetResourceManagerOperation(ctx context.Context, name string) (*api.Operation, error) {
	op, err := c.resourceMgr.Operations.Get(name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get resource manager operation: %w", err)
	}
	return fromResourceManagerOperation(op), nil
}

// ListProjects returns every project visible to the credential. Filtering by
// label and lifecycle is the facade's concern.
func (c *DefaultClient) ListProjects(ctx context.Context) ([]api.Project, error) {
	var projects []api.Project

	it := c.projects.SearchProjects(ctx, &resourcemanagerpb.SearchProjectsRequest{})
	for {
		p, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("search projects: %w", err)
		}
		projects = append(projects, api.Project{
			ID:     p.GetProjectId(),
			Name:   p.GetDisplayName(),
			Labels: p.GetLabels(),
			State:  p.GetState().String(),
		})
	}

	return projects, nil
}

func fromResourceManagerOperation(op *cloudresourcemanager.Operation) *api.Operation {
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
