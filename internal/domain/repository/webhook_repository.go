package repository

import (
	"context"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
)

// WebhookRepository is the durable append log for inbound webhook events.
// Record is the idempotency gate: two concurrent deliveries of the same
// (provider, provider event id) race on the insert and exactly one wins.
type WebhookRepository interface {
	// Record inserts a new audit row with status received. It returns a
	// duplicate-event error when the (provider, providerEventID) pair
	// already exists.
	Record(ctx context.Context, event *model.WebhookEvent) error
	GetByProviderEventID(ctx context.Context, provider, providerEventID string) (*model.WebhookEvent, error)
	MarkProcessed(ctx context.Context, id int64) error
	// MarkFailed records the failure reason and increments the attempt
	// counter; events under their retry bound move to retrying instead of
	// failed
	MarkFailed(ctx context.Context, id int64, reason string) error
	// LinkEntities attaches the payment/transaction an event ended up
	// affecting, for audit queries
	LinkEntities(ctx context.Context, id int64, paymentID, transactionID *int64) error
	// ListRetryable returns failed-but-retryable events oldest first
	ListRetryable(ctx context.Context, limit int) ([]*model.WebhookEvent, error)
}
