package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	// Auto-migrate all models
	err := db.AutoMigrate(
		&model.User{},
		&model.Order{},
		&model.CheckoutSession{},
		&model.Payment{},
		&model.Transaction{},
		&model.WebhookEvent{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	// Create custom indexes and constraints
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates custom indexes that GORM doesn't handle
// automatically
func createCustomIndexes(db *gorm.DB) error {
	// Partial index for the retry worker's scan over retryable events
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_events_retryable ON webhook_events (created_at) WHERE status IN ('failed', 'retrying')`).Error; err != nil {
		return err
	}

	// Reconciliation matches webhook events on the provider transaction id
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_transactions_provider_tx ON transactions (provider_transaction_id)`).Error; err != nil {
		return err
	}

	return nil
}
