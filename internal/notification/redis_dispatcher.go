package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
)

const (
	ChannelPaymentConfirmed = "notifications:payment_confirmed"
	ChannelPaymentFailed    = "notifications:payment_failed"
	ChannelRefundIssued     = "notifications:refund_issued"
	ChannelDisputeOpened    = "notifications:dispute_opened"
	ChannelInventoryUpdate  = "notifications:inventory_update"
)

// publishTimeout bounds how long a single publish may take; notifications
// must never hold up the webhook response
const publishTimeout = 5 * time.Second

type redisDispatcher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisDispatcher publishes notification events to Redis channels where
// downstream consumers (email, inventory, dispute desk) pick them up.
func NewRedisDispatcher(client *redis.Client, logger *zap.Logger) Dispatcher {
	return &redisDispatcher{client: client, logger: logger}
}

// publish fires the message on its own goroutine detached from the caller's
// context, so a slow broker cannot block payment processing
func (d *redisDispatcher) publish(_ context.Context, channel string, payload map[string]interface{}) {
	payload["published_at"] = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("failed to marshal notification payload",
			zap.String("channel", channel), zap.Error(err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := d.client.Publish(ctx, channel, body).Err(); err != nil {
			d.logger.Error("failed to publish notification",
				zap.String("channel", channel), zap.Error(err))
		}
	}()
}

func (d *redisDispatcher) PaymentConfirmed(ctx context.Context, order *model.Order, payment *model.Payment) {
	d.publish(ctx, ChannelPaymentConfirmed, map[string]interface{}{
		"order_id":            order.ID,
		"order_number":        order.OrderNumber,
		"payment_id":          payment.ID,
		"confirmation_number": payment.ConfirmationNumber,
		"amount":              payment.Amount.String(),
		"currency":            payment.Currency,
	})
}

func (d *redisDispatcher) PaymentFailed(ctx context.Context, payment *model.Payment, reason string) {
	d.publish(ctx, ChannelPaymentFailed, map[string]interface{}{
		"payment_id": payment.ID,
		"order_id":   payment.OrderID,
		"reason":     reason,
	})
}

func (d *redisDispatcher) RefundIssued(ctx context.Context, original *model.Payment, refund *model.Payment) {
	d.publish(ctx, ChannelRefundIssued, map[string]interface{}{
		"original_payment_id": original.ID,
		"refund_payment_id":   refund.ID,
		"amount":              refund.Amount.String(),
		"currency":            refund.Currency,
	})
}

func (d *redisDispatcher) DisputeOpened(ctx context.Context, payment *model.Payment, eventType string) {
	d.publish(ctx, ChannelDisputeOpened, map[string]interface{}{
		"payment_id": payment.ID,
		"order_id":   payment.OrderID,
		"event_type": eventType,
	})
}

func (d *redisDispatcher) InventoryUpdate(ctx context.Context, order *model.Order) {
	d.publish(ctx, ChannelInventoryUpdate, map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"items":        order.Items,
	})
}
