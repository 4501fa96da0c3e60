package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/amitosh2002/yuno-assignment/internal/domain/repository"
)

const (
	defaultRetryInterval  = 30 * time.Second
	defaultRetryBatchSize = 50
)

// RetryWorker periodically re-runs reconciliation for webhook events that
// failed transiently or arrived before the transaction they reference was
// written. Events past their retry bound stay failed and are left for
// manual inspection.
type RetryWorker struct {
	webhookRepo repository.WebhookRepository
	service     *ReconciliationService
	interval    time.Duration
	batchSize   int
	logger      *zap.Logger
}

// NewRetryWorker creates a retry worker. interval <= 0 and batchSize <= 0
// fall back to defaults.
func NewRetryWorker(webhookRepo repository.WebhookRepository, service *ReconciliationService, interval time.Duration, batchSize int, logger *zap.Logger) *RetryWorker {
	if interval <= 0 {
		interval = defaultRetryInterval
	}
	if batchSize <= 0 {
		batchSize = defaultRetryBatchSize
	}
	return &RetryWorker{
		webhookRepo: webhookRepo,
		service:     service,
		interval:    interval,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// Run loops until ctx is cancelled
func (w *RetryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("webhook retry worker started",
		zap.Duration("interval", w.interval), zap.Int("batch_size", w.batchSize))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("webhook retry worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce processes one batch of retryable events
func (w *RetryWorker) RunOnce(ctx context.Context) {
	events, err := w.webhookRepo.ListRetryable(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("failed to list retryable webhook events", zap.Error(err))
		return
	}
	if len(events) == 0 {
		return
	}

	w.logger.Info("retrying webhook events", zap.Int("count", len(events)))
	for _, event := range events {
		if err := w.service.Replay(ctx, event); err != nil {
			w.logger.Warn("webhook event retry failed",
				zap.Int64("event_id", event.ID),
				zap.String("provider_event_id", event.ProviderEventID),
				zap.Int("attempts", event.ProcessingAttempts),
				zap.Error(err))
			continue
		}
		w.logger.Info("webhook event retried successfully",
			zap.Int64("event_id", event.ID),
			zap.String("provider_event_id", event.ProviderEventID))
	}
}
