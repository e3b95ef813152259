package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfleet/outfleet/internal/api"
	apperrors "github.com/outfleet/outfleet/internal/errors"
	"github.com/outfleet/outfleet/internal/testutil"
)

func TestEnsureFirewallCreatesRuleWhenAbsent(t *testing.T) {
	client := newFakeClient()
	var createdSpec *api.FirewallSpec
	client.createFirewallFunc = func(_ context.Context, _ string, spec *api.FirewallSpec) (*api.Operation, error) {
		createdSpec = spec
		return testutil.DoneOperation("op-fw"), nil
	}

	m := NewFirewallManager(client, testSettings(), testLogger())
	require.NoError(t, m.EnsureFirewall(context.Background(), "proj-1"))

	require.NotNil(t, createdSpec)
	assert.Equal(t, "outline", createdSpec.Name)
	assert.Equal(t, []string{"0.0.0.0/0"}, createdSpec.SourceRanges)
	assert.Equal(t, []string{"outline"}, createdSpec.TargetTags)
	assert.Contains(t, createdSpec.Protocols, "all")
}

func TestEnsureFirewallIsIdempotent(t *testing.T) {
	client := newFakeClient()
	client.listFirewallsFunc = func(_ context.Context, _, name string) ([]api.Firewall, error) {
		if client.callCount("CreateFirewall") > 0 {
			return []api.Firewall{{Name: name}}, nil
		}
		return nil, nil
	}

	m := NewFirewallManager(client, testSettings(), testLogger())
	require.NoError(t, m.EnsureFirewall(context.Background(), "proj-1"))
	require.NoError(t, m.EnsureFirewall(context.Background(), "proj-1"))

	assert.Equal(t, 1, client.callCount("CreateFirewall"),
		"second call against a configured project is a no-op besides the list")
	assert.Equal(t, 2, client.callCount("ListFirewalls"))
}

func TestEnsureFirewallSurfacesTerminalOperationError(t *testing.T) {
	client := newFakeClient()
	client.getGlobalOpFunc = func(_ context.Context, _, name string) (*api.Operation, error) {
		return testutil.FailedOperation(name, "403", "compute API not enabled"), nil
	}

	m := NewFirewallManager(client, testSettings(), testLogger())
	err := m.EnsureFirewall(context.Background(), "proj-1")

	require.Error(t, err)
	testutil.AssertAppErrorCode(t, err, apperrors.ErrCodeFirewallCreation)
}
