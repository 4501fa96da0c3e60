package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
	domainRepo "github.com/amitosh2002/yuno-assignment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type orderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB, logger *zap.Logger) domainRepo.OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new order
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		r.logger.Error("Failed to create order",
			zap.Int64("user_id", order.UserID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its local id
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get order",
			zap.Int64("order_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// GetByUserID retrieves a user's orders, newest first
func (r *orderRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*model.Order, error) {
	var orders []*model.Order

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset)

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&orders).Error; err != nil {
		r.logger.Error("Failed to get orders by user id",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get orders by user id: %w", err)
	}

	return orders, nil
}

// UpdateStatus transitions an order to the given lifecycle status
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		r.logger.Error("Failed to update order status",
			zap.Int64("order_id", id),
			zap.String("status", string(status)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("order not found: %d", id)
	}

	return nil
}

// MarkPaid records the paid transition, payment link and paid timestamp
func (r *orderRepository) MarkPaid(ctx context.Context, id int64, paymentID int64, paidAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusPaid,
			"payment_id": paymentID,
			"paid_at":    &paidAt,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark order as paid",
			zap.Int64("order_id", id),
			zap.Int64("payment_id", paymentID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark order as paid: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("order not found: %d", id)
	}

	return nil
}
