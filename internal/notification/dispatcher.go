package notification

import (
	"context"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
)

// Dispatcher delivers post-reconciliation side effects. Delivery is best
// effort: a failed dispatch is logged by the implementation and never
// propagated back into payment processing.
type Dispatcher interface {
	PaymentConfirmed(ctx context.Context, order *model.Order, payment *model.Payment)
	PaymentFailed(ctx context.Context, payment *model.Payment, reason string)
	RefundIssued(ctx context.Context, original *model.Payment, refund *model.Payment)
	DisputeOpened(ctx context.Context, payment *model.Payment, eventType string)
	InventoryUpdate(ctx context.Context, order *model.Order)
}

type noopDispatcher struct{}

// NewNoopDispatcher returns a dispatcher that discards every event.
func NewNoopDispatcher() Dispatcher {
	return &noopDispatcher{}
}

func (d *noopDispatcher) PaymentConfirmed(context.Context, *model.Order, *model.Payment) {}
func (d *noopDispatcher) PaymentFailed(context.Context, *model.Payment, string)          {}
func (d *noopDispatcher) RefundIssued(context.Context, *model.Payment, *model.Payment)   {}
func (d *noopDispatcher) DisputeOpened(context.Context, *model.Payment, string)          {}
func (d *noopDispatcher) InventoryUpdate(context.Context, *model.Order)                  {}
