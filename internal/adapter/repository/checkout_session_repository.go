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

type checkoutSessionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCheckoutSessionRepository creates a new checkout session repository
func NewCheckoutSessionRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CheckoutSessionRepository {
	return &checkoutSessionRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new checkout session
func (r *checkoutSessionRepository) Create(ctx context.Context, session *model.CheckoutSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		r.logger.Error("Failed to create checkout session",
			zap.Int64("order_id", session.OrderID),
			zap.String("gateway_session_id", session.GatewaySessionID),
			zap.Error(err))
		return fmt.Errorf("failed to create checkout session: %w", err)
	}

	return nil
}

// GetByID retrieves a checkout session by its local id
func (r *checkoutSessionRepository) GetByID(ctx context.Context, id int64) (*model.CheckoutSession, error) {
	var session model.CheckoutSession

	err := r.db.WithContext(ctx).First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get checkout session",
			zap.Int64("session_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}

	return &session, nil
}

// GetByGatewaySessionID retrieves a checkout session by the gateway's id
func (r *checkoutSessionRepository) GetByGatewaySessionID(ctx context.Context, gatewaySessionID string) (*model.CheckoutSession, error) {
	var session model.CheckoutSession

	err := r.db.WithContext(ctx).
		Where("gateway_session_id = ?", gatewaySessionID).
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get checkout session by gateway id",
			zap.String("gateway_session_id", gatewaySessionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get checkout session by gateway id: %w", err)
	}

	return &session, nil
}

// UpdateStatus transitions a checkout session
func (r *checkoutSessionRepository) UpdateStatus(ctx context.Context, id int64, status model.CheckoutSessionStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.CheckoutSession{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		r.logger.Error("Failed to update checkout session status",
			zap.Int64("session_id", id),
			zap.String("status", string(status)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update checkout session status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("checkout session not found: %d", id)
	}

	return nil
}
