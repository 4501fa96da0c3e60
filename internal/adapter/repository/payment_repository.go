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

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new payment
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		r.logger.Error("Failed to create payment",
			zap.Int64("user_id", payment.UserID),
			zap.String("confirmation_number", payment.ConfirmationNumber),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by its local id
func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	var payment model.Payment

	err := r.db.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment",
			zap.Int64("payment_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// GetByGatewayPaymentID retrieves a payment by the gateway-assigned id
func (r *paymentRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*model.Payment, error) {
	var payment model.Payment

	err := r.db.WithContext(ctx).
		Where("gateway_payment_id = ?", gatewayPaymentID).
		First(&payment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment by gateway id",
			zap.String("gateway_payment_id", gatewayPaymentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment by gateway id: %w", err)
	}

	return &payment, nil
}

// GetByUserID retrieves a user's payments, newest first
func (r *paymentRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*model.Payment, error) {
	var payments []*model.Payment

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset)

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&payments).Error; err != nil {
		r.logger.Error("Failed to get payments by user id",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payments by user id: %w", err)
	}

	return payments, nil
}

// UpdateFields applies a partial column update to one payment
func (r *paymentRepository) UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to update payment",
			zap.Int64("payment_id", id),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("payment not found: %d", id)
	}

	return nil
}
