package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneRegion(t *testing.T) {
	tests := []struct {
		zone string
		want string
	}{
		{"us-central1-a", "us-central1"},
		{"europe-west1-b", "europe-west1"},
		{"asia-northeast1-c", "asia-northeast1"},
		{"nodash", "nodash"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Zone{ID: tt.zone}.Region())
	}
}

func TestInstanceExternalIP(t *testing.T) {
	withIP := Instance{Interfaces: []NetworkInterface{{
		AccessConfigs: []AccessConfig{{Type: "ONE_TO_ONE_NAT", NatIP: "34.42.0.7"}},
	}}}
	assert.Equal(t, "34.42.0.7", withIP.ExternalIP())

	noConfigs := Instance{Interfaces: []NetworkInterface{{}}}
	assert.Empty(t, noConfigs.ExternalIP())

	noInterfaces := Instance{}
	assert.Empty(t, noInterfaces.ExternalIP())
}

func TestOperationErrorString(t *testing.T) {
	var nilErr *OperationError
	assert.Empty(t, nilErr.String())

	assert.Equal(t, "just a message", (&OperationError{Message: "just a message"}).String())
	assert.Equal(t, "13: backend failure", (&OperationError{Code: "13", Message: "backend failure"}).String())
}
