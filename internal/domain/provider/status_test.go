package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		name     string
		gateway  GatewayStatus
		expected InternalStatus
		mapped   bool
	}{
		{"created maps to pending", GatewayStatusCreated, InternalStatusPending, true},
		{"pending maps to processing", GatewayStatusPending, InternalStatusProcessing, true},
		{"succeeded maps to completed", GatewayStatusSucceeded, InternalStatusCompleted, true},
		{"failed maps to failed", GatewayStatusFailed, InternalStatusFailed, true},
		{"cancelled maps to cancelled", GatewayStatusCancelled, InternalStatusCancelled, true},
		{"refunded maps to refunded", GatewayStatusRefunded, InternalStatusRefunded, true},
		{"unknown defaults to pending", GatewayStatus("AUTHORIZED"), InternalStatusPending, false},
		{"empty defaults to pending", GatewayStatus(""), InternalStatusPending, false},
		{"lowercase input is not a gateway status", GatewayStatus("succeeded"), InternalStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapGatewayStatus(tt.gateway)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.mapped, ok)
		})
	}
}
