package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
	domainRepo "github.com/amitosh2002/yuno-assignment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB, logger *zap.Logger) domainRepo.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new transaction
func (r *transactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	if transaction.ProviderName == "" {
		transaction.ProviderName = model.ProviderYuno
	}

	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		r.logger.Error("Failed to create transaction",
			zap.String("provider_transaction_id", transaction.ProviderTransactionID),
			zap.Int64("payment_id", transaction.PaymentID),
			zap.Error(err))
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its local id
func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	var transaction model.Transaction

	err := r.db.WithContext(ctx).First(&transaction, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get transaction",
			zap.Int64("transaction_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &transaction, nil
}

// GetByProviderTransactionID looks a transaction up by the gateway's id.
// A missing row is not an error here; reconciliation treats it as a no-op.
func (r *transactionRepository) GetByProviderTransactionID(ctx context.Context, providerTransactionID string) (*model.Transaction, error) {
	var transaction model.Transaction

	err := r.db.WithContext(ctx).
		Where("provider_transaction_id = ?", providerTransactionID).
		First(&transaction).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get transaction by provider id",
			zap.String("provider_transaction_id", providerTransactionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get transaction by provider id: %w", err)
	}

	return &transaction, nil
}

// GetByPaymentID retrieves all transactions for one payment
func (r *transactionRepository) GetByPaymentID(ctx context.Context, paymentID int64) ([]*model.Transaction, error) {
	var transactions []*model.Transaction

	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&transactions).Error

	if err != nil {
		r.logger.Error("Failed to get transactions by payment id",
			zap.Int64("payment_id", paymentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get transactions by payment id: %w", err)
	}

	return transactions, nil
}

// UpdateFields applies a partial column update to one transaction
func (r *transactionRepository) UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to update transaction",
			zap.Int64("transaction_id", id),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("transaction not found: %d", id)
	}

	return nil
}
