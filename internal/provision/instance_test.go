package provision

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfleet/outfleet/internal/api"
	apperrors "github.com/outfleet/outfleet/internal/errors"
	"github.com/outfleet/outfleet/internal/testutil"
)

var instanceNamePattern = regexp.MustCompile(`^outline-\d{8}-\d{6}$`)

func newTestProvisioner(client *fakeClient) *InstanceProvisioner {
	p := NewInstanceProvisioner(client, testSettings(), testLogger())
	p.now = func() time.Time {
		return time.Date(2026, 8, 29, 10, 15, 0, 0, time.UTC)
	}
	return p
}

func TestCreateInstanceScenario(t *testing.T) {
	client := newFakeClient()
	var spec *api.InstanceSpec
	client.createInstanceFunc = func(_ context.Context, _, _ string, s *api.InstanceSpec) (*api.Operation, error) {
		spec = s
		return testutil.DoneOperationWithTarget("op-inst", "9876"), nil
	}
	client.getInstanceFunc = func(_ context.Context, locator api.InstanceLocator) (*api.Instance, error) {
		return testutil.NewInstanceBuilder().
			WithID(locator.Instance).
			WithName(spec.Name).
			WithEphemeralIP("34.42.0.7").
			Build(), nil
	}
	var staticIP string
	client.createStaticIPFunc = func(_ context.Context, _, _, _, address string) (*api.Operation, error) {
		staticIP = address
		return testutil.DoneOperation("op-addr"), nil
	}

	p := newTestProvisioner(client)
	server, err := p.CreateInstance(context.Background(), "proj-1", "my relay", "us-central1-a")
	require.NoError(t, err)

	assert.Equal(t, "9876", server.ID, "instance id comes from the operation target")
	assert.Equal(t, "outline-20260829-101500", server.Name)
	assert.Regexp(t, instanceNamePattern, server.Name)
	assert.Equal(t, api.InstanceLocator{
		ProjectID: "proj-1", Zone: "us-central1-a", Instance: "9876",
	}, server.Locator)

	require.NoError(t, server.Completion.Wait(context.Background()))

	assert.Equal(t, 1, client.callCount("CreateFirewall"))
	assert.Equal(t, 1, client.callCount("CreateStaticIP"))
	assert.Equal(t, "34.42.0.7", staticIP, "static reservation binds the ephemeral address")

	require.NotNil(t, spec)
	assert.Equal(t, "my relay", spec.Description)
	assert.Equal(t, []string{"outline"}, spec.NetworkTags)
	assert.Equal(t, map[string]string{"outline": "true"}, spec.Labels)
	assert.Contains(t, spec.Metadata, "user-data")
	assert.Equal(t, "TRUE", spec.Metadata["enable-guest-attributes"])
}

func TestInstanceNamesCollideWithinOneSecond(t *testing.T) {
	client := newFakeClient()
	p := newTestProvisioner(client)

	first, err := p.CreateInstance(context.Background(), "proj-1", "", "us-central1-a")
	require.NoError(t, err)
	second, err := p.CreateInstance(context.Background(), "proj-1", "", "us-central1-a")
	require.NoError(t, err)

	// Second-granularity naming is a documented boundary of the scheme.
	assert.Equal(t, first.Name, second.Name)
	p.Drain()
}

func TestCreateInstanceRequiresTargetID(t *testing.T) {
	client := newFakeClient()
	client.createInstanceFunc = func(_ context.Context, _, _ string, _ *api.InstanceSpec) (*api.Operation, error) {
		return testutil.DoneOperation("op-inst"), nil
	}

	p := newTestProvisioner(client)
	_, err := p.CreateInstance(context.Background(), "proj-1", "", "us-central1-a")

	require.Error(t, err)
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeInstanceCreation)
}

func TestCreateInstanceSubmitFailureAbortsFlow(t *testing.T) {
	client := newFakeClient()
	client.createInstanceFunc = func(_ context.Context, _, _ string, _ *api.InstanceSpec) (*api.Operation, error) {
		return nil, errors.New("zone exhausted")
	}

	p := newTestProvisioner(client)
	_, err := p.CreateInstance(context.Background(), "proj-1", "", "us-central1-a")

	require.Error(t, err)
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeInstanceCreation)
	assert.Equal(t, 0, client.callCount("CreateFirewall"))
	assert.Equal(t, 0, client.callCount("CreateStaticIP"))
}

func TestCompletionFailsWhenFirewallFails(t *testing.T) {
	client := newFakeClient()
	client.getInstanceFunc = func(_ context.Context, locator api.InstanceLocator) (*api.Instance, error) {
		return testutil.NewInstanceBuilder().WithEphemeralIP("34.42.0.7").Build(), nil
	}
	client.createFirewallFunc = func(_ context.Context, _ string, _ *api.FirewallSpec) (*api.Operation, error) {
		return nil, errors.New("insert rejected")
	}

	p := newTestProvisioner(client)
	server, err := p.CreateInstance(context.Background(), "proj-1", "", "us-central1-a")
	require.NoError(t, err, "the handle is returned before the continuations conclude")

	err = server.Completion.Wait(context.Background())
	require.Error(t, err)
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeFirewallCreation)
}

func TestCompletionFailsWhenPromotionFails(t *testing.T) {
	client := newFakeClient()
	client.getInstanceFunc = func(_ context.Context, locator api.InstanceLocator) (*api.Instance, error) {
		return testutil.NewInstanceBuilder().WithoutIP().Build(), nil
	}

	p := newTestProvisioner(client)
	server, err := p.CreateInstance(context.Background(), "proj-1", "", "us-central1-a")
	require.NoError(t, err)

	err = server.Completion.Wait(context.Background())
	require.Error(t, err)
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeIPPromotion)
	assert.Equal(t, 1, client.callCount("CreateFirewall"),
		"firewall continuation runs regardless of the promotion outcome")
}

func TestCompletionFailsWhenZoneOperationFails(t *testing.T) {
	client := newFakeClient()
	client.getZoneOpFunc = func(_ context.Context, _, _, name string) (*api.Operation, error) {
		return testutil.FailedOperation(name, "10", "resources exhausted"), nil
	}

	p := newTestProvisioner(client)
	server, err := p.CreateInstance(context.Background(), "proj-1", "", "us-central1-a")
	require.NoError(t, err)

	err = server.Completion.Wait(context.Background())
	require.Error(t, err)
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeInstanceCreation)
	assert.Equal(t, 0, client.callCount("CreateStaticIP"),
		"promotion never runs when the creation operation failed")
}

func TestListServersFiltersByLabelAcrossZones(t *testing.T) {
	client := newFakeClient()
	client.listZonesFunc = func(_ context.Context, _ string) ([]api.Zone, error) {
		return []api.Zone{
			{ID: "us-central1-a", Status: api.ZoneStatusUp},
			{ID: "europe-west1-b", Status: api.ZoneStatusUp},
		}, nil
	}
	client.listInstancesFunc = func(_ context.Context, _, zone, labelFilter string) ([]api.Instance, error) {
		assert.Equal(t, "labels.outline=true", labelFilter)
		if zone != "us-central1-a" {
			return nil, nil
		}
		return []api.Instance{*testutil.NewInstanceBuilder().WithZone(zone).Build()}, nil
	}

	p := newTestProvisioner(client)
	servers, err := p.ListServers(context.Background(), "proj-1")
	require.NoError(t, err)

	require.Len(t, servers, 1)
	assert.Equal(t, "us-central1-a", servers[0].Locator.Zone)
	assert.True(t, servers[0].Completion.Resolved(),
		"pre-existing servers carry already-resolved signals")
	assert.NoError(t, servers[0].Completion.Err())
	assert.Equal(t, 2, client.callCount("ListInstances"))
}
