package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/amitosh2002/yuno-assignment/internal/domain/errors"
	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
	domainRepo "github.com/amitosh2002/yuno-assignment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type webhookRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookRepository creates a new webhook event repository
func NewWebhookRepository(db *gorm.DB, logger *zap.Logger) domainRepo.WebhookRepository {
	return &webhookRepository{
		db:     db,
		logger: logger,
	}
}

// Record inserts a new webhook event audit row. The insert races on the
// unique (provider, provider_event_id) index; a losing insert affects zero
// rows and is reported as a duplicate event so the caller can short-circuit
// without reprocessing.
func (r *webhookRepository) Record(ctx context.Context, event *model.WebhookEvent) error {
	if event.Status == "" {
		event.Status = model.WebhookStatusReceived
	}
	if event.MaxRetries == 0 {
		event.MaxRetries = model.DefaultWebhookMaxRetries
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_event_id"}},
			DoNothing: true,
		}).
		Create(event)

	if result.Error != nil {
		r.logger.Error("Failed to record webhook event",
			zap.String("provider", event.Provider),
			zap.String("provider_event_id", event.ProviderEventID),
			zap.String("event_type", event.EventType),
			zap.Error(result.Error))
		return fmt.Errorf("failed to record webhook event: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domainErrors.NewDuplicateEventError(event.Provider, event.ProviderEventID)
	}

	return nil
}

// GetByProviderEventID retrieves a webhook event by its provider-assigned id
func (r *webhookRepository) GetByProviderEventID(ctx context.Context, provider, providerEventID string) (*model.WebhookEvent, error) {
	var event model.WebhookEvent

	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_event_id = ?", provider, providerEventID).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get webhook event",
			zap.String("provider", provider),
			zap.String("provider_event_id", providerEventID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}

	return &event, nil
}

// MarkProcessed transitions the audit row to processed
func (r *webhookRepository) MarkProcessed(ctx context.Context, id int64) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.WebhookStatusProcessed,
			"processed_at": &now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark webhook event as processed",
			zap.Int64("event_id", id),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark webhook event as processed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("webhook event not found: %d", id)
	}

	return nil
}

// MarkFailed records the failure and increments the attempt counter. Events
// still under their retry bound are parked as retrying for the retry worker.
// The increment and the status decision happen in a single UPDATE so
// concurrent failures of the same event cannot lose an attempt.
func (r *webhookRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	result := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_attempts": gorm.Expr("processing_attempts + 1"),
			"status": gorm.Expr("CASE WHEN processing_attempts + 1 >= max_retries THEN ? ELSE ? END",
				model.WebhookStatusFailed, model.WebhookStatusRetrying),
			"error_message": &reason,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark webhook event as failed",
			zap.Int64("event_id", id),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark webhook event as failed: %w", result.Error)
	}

	return nil
}

// LinkEntities attaches the affected payment/transaction ids to the audit row
func (r *webhookRepository) LinkEntities(ctx context.Context, id int64, paymentID, transactionID *int64) error {
	updates := map[string]interface{}{}
	if paymentID != nil {
		updates["related_payment_id"] = *paymentID
	}
	if transactionID != nil {
		updates["related_transaction_id"] = *transactionID
	}
	if len(updates) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Updates(updates).Error

	if err != nil {
		r.logger.Error("Failed to link webhook event entities",
			zap.Int64("event_id", id),
			zap.Error(err))
		return fmt.Errorf("failed to link webhook event entities: %w", err)
	}

	return nil
}

// ListRetryable returns events parked for retry, oldest first
func (r *webhookRepository) ListRetryable(ctx context.Context, limit int) ([]*model.WebhookEvent, error) {
	var events []*model.WebhookEvent

	query := r.db.WithContext(ctx).
		Where("status = ? AND processing_attempts < max_retries", model.WebhookStatusRetrying).
		Order("created_at ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&events).Error; err != nil {
		r.logger.Error("Failed to list retryable webhook events",
			zap.Error(err))
		return nil, fmt.Errorf("failed to list retryable webhook events: %w", err)
	}

	return events, nil
}
