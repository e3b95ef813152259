package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfleet/outfleet/internal/api"
	apperrors "github.com/outfleet/outfleet/internal/errors"
	"github.com/outfleet/outfleet/internal/testutil"
)

func TestCreateProjectHappyPath(t *testing.T) {
	client := newFakeClient()
	var gotDisplayName string
	var gotLabels map[string]string
	client.createProjectFunc = func(_ context.Context, projectID, displayName string, labels map[string]string) (*api.Operation, error) {
		assert.Equal(t, "proj-1", projectID)
		gotDisplayName = displayName
		gotLabels = labels
		return testutil.DoneOperation("op-proj"), nil
	}
	var linkedAccount string
	client.updateProjectBillingInfoFunc = func(_ context.Context, _, billingAccountID string) error {
		linkedAccount = billingAccountID
		return nil
	}

	p := NewProjectProvisioner(client, testSettings(), testLogger())
	project, err := p.CreateProject(context.Background(), "proj-1", "BILL-1")
	require.NoError(t, err)

	assert.Equal(t, "proj-1", project.ID)
	assert.Equal(t, "Outline servers", project.Name)
	assert.Equal(t, "Outline servers", gotDisplayName)
	assert.Equal(t, map[string]string{"outline": "true"}, gotLabels)

	assert.Equal(t, "BILL-1", linkedAccount)
	assert.Equal(t, 1, client.callCount("UpdateProjectBillingInfo"),
		"exactly one billing link call")
	assert.Equal(t, 1, client.callCount("EnableServices"),
		"exactly one service enablement call")
}

func TestCreateProjectTerminalErrorSkipsConfiguration(t *testing.T) {
	client := newFakeClient()
	client.createProjectFunc = func(_ context.Context, _, _ string, _ map[string]string) (*api.Operation, error) {
		return testutil.PendingOperation("op-proj"), nil
	}
	client.getResourceManagerOperationFunc = func(_ context.Context, name string) (*api.Operation, error) {
		return testutil.FailedOperation(name, "6", "project id already exists"), nil
	}

	p := NewProjectProvisioner(client, testSettings(), testLogger())
	_, err := p.CreateProject(context.Background(), "proj-1", "BILL-1")

	require.Error(t, err)
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeProjectCreation)
	assert.Equal(t, 0, client.callCount("UpdateProjectBillingInfo"),
		"configuration never runs against a project that failed to create")
	assert.Equal(t, 0, client.callCount("EnableServices"))
}

func TestConfigureProjectLinksBillingBeforeEnablingServices(t *testing.T) {
	client := newFakeClient()
	var order []string
	client.updateProjectBillingInfoFunc = func(_ context.Context, _, _ string) error {
		order = append(order, "billing")
		return nil
	}
	client.enableServicesFunc = func(_ context.Context, _ string, services []string) (*api.Operation, error) {
		order = append(order, "services")
		assert.Contains(t, services, "compute.googleapis.com")
		return testutil.DoneOperation("op-enable"), nil
	}

	p := NewProjectProvisioner(client, testSettings(), testLogger())
	require.NoError(t, p.ConfigureProject(context.Background(), "proj-1", "BILL-1"))
	assert.Equal(t, []string{"billing", "services"}, order)
}

func TestConfigureProjectBillingFailureBlocksEnablement(t *testing.T) {
	client := newFakeClient()
	client.updateProjectBillingInfoFunc = func(_ context.Context, _, _ string) error {
		return errors.New("billing account closed")
	}

	p := NewProjectProvisioner(client, testSettings(), testLogger())
	err := p.ConfigureProject(context.Background(), "proj-1", "BILL-1")

	require.Error(t, err)
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeBillingLink)
	assert.Equal(t, 0, client.callCount("EnableServices"))
}

func TestConfigureProjectSurfacesEnablementOperationError(t *testing.T) {
	client := newFakeClient()
	client.getServiceUsageOperationFunc = func(_ context.Context, name string) (*api.Operation, error) {
		return testutil.FailedOperation(name, "7", "permission denied"), nil
	}

	p := NewProjectProvisioner(client, testSettings(), testLogger())
	err := p.ConfigureProject(context.Background(), "proj-1", "BILL-1")

	require.Error(t, err)
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeServiceEnablement)
}

func TestRepairProjectRerunsFullConfiguration(t *testing.T) {
	client := newFakeClient()

	p := NewProjectProvisioner(client, testSettings(), testLogger())
	require.NoError(t, p.RepairProject(context.Background(), "proj-1", "BILL-1"))

	assert.Equal(t, 1, client.callCount("UpdateProjectBillingInfo"))
	assert.Equal(t, 1, client.callCount("EnableServices"))
}
