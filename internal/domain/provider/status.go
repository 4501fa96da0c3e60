package provider

// GatewayStatus is the gateway-native status vocabulary (uppercase). It is
// only ever joined to the internal vocabulary through MapGatewayStatus and is
// never stored in a status column.
type GatewayStatus string

const (
	GatewayStatusCreated   GatewayStatus = "CREATED"
	GatewayStatusPending   GatewayStatus = "PENDING"
	GatewayStatusSucceeded GatewayStatus = "SUCCEEDED"
	GatewayStatusFailed    GatewayStatus = "FAILED"
	GatewayStatusCancelled GatewayStatus = "CANCELLED"
	GatewayStatusRefunded  GatewayStatus = "REFUNDED"
)

// InternalStatus is the service-internal status vocabulary (lowercase)
type InternalStatus string

const (
	InternalStatusPending    InternalStatus = "pending"
	InternalStatusProcessing InternalStatus = "processing"
	InternalStatusCompleted  InternalStatus = "completed"
	InternalStatusFailed     InternalStatus = "failed"
	InternalStatusCancelled  InternalStatus = "cancelled"
	InternalStatusRefunded   InternalStatus = "refunded"
)

var gatewayStatusMap = map[GatewayStatus]InternalStatus{
	GatewayStatusCreated:   InternalStatusPending,
	GatewayStatusPending:   InternalStatusProcessing,
	GatewayStatusSucceeded: InternalStatusCompleted,
	GatewayStatusFailed:    InternalStatusFailed,
	GatewayStatusCancelled: InternalStatusCancelled,
	GatewayStatusRefunded:  InternalStatusRefunded,
}

// MapGatewayStatus translates a gateway status to the internal vocabulary.
// Unknown values map to pending and report ok=false; callers must log the
// unmapped status so the vocabulary can be extended instead of silently
// dropping it.
func MapGatewayStatus(status GatewayStatus) (InternalStatus, bool) {
	if mapped, ok := gatewayStatusMap[status]; ok {
		return mapped, true
	}
	return InternalStatusPending, false
}
