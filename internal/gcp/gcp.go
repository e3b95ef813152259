package gcp

import (
	"context"
	"fmt"

	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	"google.golang.org/api/cloudbilling/v1"
	"google.golang.org/api/cloudresourcemanager/v3"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/serviceusage/v1"
)

// DefaultClient implements Client against the real Google Cloud control
// plane. Project listing goes through the gRPC resource manager client so
// label queries stay server-side; everything else uses the REST services,
// whose operation resources map directly onto api.Operation.
type DefaultClient struct {
	projects     *resourcemanager.ProjectsClient
	resourceMgr  *cloudresourcemanager.Service
	serviceUsage *serviceusage.Service
	billing      *cloudbilling.APIService
	compute      *compute.Service
}

var _ Client = (*DefaultClient)(nil)

// NewClient builds a DefaultClient using application default credentials, or
// the given credentials file when non-empty.
func NewClient(ctx context.Context, credentialsFile string) (*DefaultClient, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	projects, err := resourcemanager.NewProjectsClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create projects client: %w", err)
	}

	resourceMgr, err := cloudresourcemanager.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create resource manager service: %w", err)
	}

	serviceUsageSvc, err := serviceusage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create service usage service: %w", err)
	}

	billingSvc, err := cloudbilling.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create billing service: %w", err)
	}

	computeSvc, err := compute.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create compute service: %w", err)
	}

	return &DefaultClient{
		projects:     projects,
		resourceMgr:  resourceMgr,
		serviceUsage: serviceUsageSvc,
		billing:      billingSvc,
		compute:      computeSvc,
	}, nil
}

// Close releases the underlying gRPC connection.
func (c *DefaultClient) Close() error {
	if c.projects != nil {
		return c.projects.Close()
	}
	return nil
}
