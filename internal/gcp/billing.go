package gcp

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/cloudbilling/v1"

	"github.com/outfleet/outfleet/internal/api"
	"github.com/outfleet/outfleet/internal/constants"
)

// GetProjectBillingInfo returns the billing linkage of a project.
func (c *DefaultClient) GetProjectBillingInfo(ctx context.Context, projectID string) (*api.ProjectBillingInfo, error) {
	info, err := c.billing.Projects.GetBillingInfo("projects/" + projectID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get billing info for %s: %w", projectID, err)
	}

	return &api.ProjectBillingInfo{
		BillingAccountID: strings.TrimPrefix(info.BillingAccountName, constants.BillingAccountPrefix),
		BillingEnabled:   info.BillingEnabled,
	}, nil
}

// UpdateProjectBillingInfo links a project to a billing account. The account
// id may be bare or carry the billingAccounts/ prefix.
func (c *DefaultClient) UpdateProjectBillingInfo(ctx context.Context, projectID, billingAccountID string) error {
	name := billingAccountID
	if !strings.HasPrefix(name, constants.BillingAccountPrefix) {
		name = constants.BillingAccountPrefix + name
	}

	info := &cloudbilling.ProjectBillingInfo{BillingAccountName: name}
	if _, err := c.billing.Projects.UpdateBillingInfo("projects/"+projectID, info).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update billing info for %s: %w", projectID, err)
	}
	return nil
}

// ListBillingAccounts returns every billing account visible to the
// credential. IDs keep the provider resource prefix; the facade strips it.
func (c *DefaultClient) ListBillingAccounts(ctx context.Context) ([]api.BillingAccount, error) {
	var accounts []api.BillingAccount

	err := c.billing.BillingAccounts.List().Pages(ctx, func(page *cloudbilling.ListBillingAccountsResponse) error {
		for _, acct := range page.BillingAccounts {
			accounts = append(accounts, api.BillingAccount{
				ID:   acct.Name,
				Name: acct.DisplayName,
				Open: acct.Open,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list billing accounts: %w", err)
	}

	return accounts, nil
}
