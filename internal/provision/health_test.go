package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfleet/outfleet/internal/api"
)

func TestIsProjectHealthy(t *testing.T) {
	required := []string{
		"compute.googleapis.com",
		"serviceusage.googleapis.com",
		"cloudbilling.googleapis.com",
	}

	tests := []struct {
		name           string
		billingEnabled bool
		enabled        []string
		want           bool
	}{
		{
			name:           "billing enabled and all services present",
			billingEnabled: true,
			enabled:        required,
			want:           true,
		},
		{
			name:           "superset of required services",
			billingEnabled: true,
			enabled:        append([]string{"dns.googleapis.com"}, required...),
			want:           true,
		},
		{
			name:           "billing disabled",
			billingEnabled: false,
			enabled:        required,
			want:           false,
		},
		{
			name:           "one required service missing",
			billingEnabled: true,
			enabled:        required[:2],
			want:           false,
		},
		{
			name:           "no services enabled",
			billingEnabled: true,
			enabled:        nil,
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			client.getProjectBillingInfoFunc = func(_ context.Context, _ string) (*api.ProjectBillingInfo, error) {
				return &api.ProjectBillingInfo{BillingEnabled: tt.billingEnabled}, nil
			}
			client.listEnabledServicesFunc = func(_ context.Context, _ string) ([]string, error) {
				return tt.enabled, nil
			}

			h := NewHealthChecker(client, testSettings(), testLogger())
			healthy, err := h.IsProjectHealthy(context.Background(), "proj-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, healthy)
		})
	}
}

func TestIsProjectHealthySkipsServiceListWhenBillingDisabled(t *testing.T) {
	client := newFakeClient()
	client.getProjectBillingInfoFunc = func(_ context.Context, _ string) (*api.ProjectBillingInfo, error) {
		return &api.ProjectBillingInfo{BillingEnabled: false}, nil
	}

	h := NewHealthChecker(client, testSettings(), testLogger())
	healthy, err := h.IsProjectHealthy(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.False(t, healthy)
	assert.Equal(t, 0, client.callCount("ListEnabledServices"))
}
