package model

import (
	"database/sql/driver"
	"time"
)

// WebhookStatus represents the processing status of a webhook event
type WebhookStatus string

const (
	WebhookStatusReceived   WebhookStatus = "received"
	WebhookStatusProcessing WebhookStatus = "processing"
	WebhookStatusProcessed  WebhookStatus = "processed"
	WebhookStatusFailed     WebhookStatus = "failed"
	WebhookStatusRetrying   WebhookStatus = "retrying"
)

// Scan implements sql.Scanner interface
func (w *WebhookStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*w = WebhookStatus(v)
	case []byte:
		*w = WebhookStatus(v)
	default:
		*w = WebhookStatusReceived
	}
	return nil
}

// Value implements driver.Valuer interface
func (w WebhookStatus) Value() (driver.Value, error) {
	return string(w), nil
}

// DefaultWebhookMaxRetries bounds how often a failed event is re-run
const DefaultWebhookMaxRetries = 3

// WebhookEvent is the audit record for an inbound gateway webhook delivery.
// Rows are never deleted, only status-updated; the unique
// (provider, provider_event_id) pair is the idempotency gate duplicate
// deliveries fail against.
type WebhookEvent struct {
	ID                   int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Provider             string        `gorm:"not null;size:20;uniqueIndex:idx_webhook_events_provider_event,priority:1" json:"provider"`
	EventType            string        `gorm:"not null;size:100;index" json:"event_type"`
	ProviderEventID      string        `gorm:"column:provider_event_id;not null;size:255;uniqueIndex:idx_webhook_events_provider_event,priority:2" json:"provider_event_id"`
	Payload              JSONB         `gorm:"type:jsonb;not null" json:"payload"`
	Status               WebhookStatus `gorm:"size:20;default:'received';index" json:"status"`
	ProcessingAttempts   int           `gorm:"default:0" json:"processing_attempts"`
	MaxRetries           int           `gorm:"default:3" json:"max_retries"`
	ErrorMessage         *string       `json:"error_message,omitempty"`
	Signature            string        `gorm:"size:255" json:"signature,omitempty"`
	SignatureVerified    bool          `gorm:"default:false" json:"signature_verified"`
	RelatedPaymentID     *int64        `gorm:"index" json:"related_payment_id,omitempty"`
	RelatedTransactionID *int64        `gorm:"index" json:"related_transaction_id,omitempty"`
	ProcessedAt          *time.Time    `json:"processed_at,omitempty"`
	CreatedAt            time.Time     `gorm:"default:now();index" json:"created_at"`
	UpdatedAt            time.Time     `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
