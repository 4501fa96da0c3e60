package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainErrors "github.com/amitosh2002/yuno-assignment/internal/domain/errors"
	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
	"github.com/amitosh2002/yuno-assignment/internal/domain/repository"
)

// CreateOrderInput carries the caller-supplied order fields. The total is
// recomputed server-side; a submitted total that disagrees is rejected
// rather than silently corrected.
type CreateOrderInput struct {
	UserID   int64
	Items    []model.OrderItem
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	TotalSet bool
	Currency string
	Notes    string
	Metadata model.JSONB
}

// OrderService manages merchant orders
type OrderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates an order service
func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder validates the line items, computes the totals with decimal
// arithmetic and persists the order in pending status.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*model.Order, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domainErrors.NewNotFoundError("user", strconv.FormatInt(input.UserID, 10))
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	if !model.SupportedCurrencies[currency] {
		return nil, domainErrors.NewUnsupportedCurrencyError(currency)
	}

	if len(input.Items) == 0 {
		return nil, domainErrors.NewInvalidOrderItemError(0, "order has no items")
	}

	subtotal := decimal.Zero
	for i, item := range input.Items {
		if item.Name == "" {
			return nil, domainErrors.NewInvalidOrderItemError(i, "missing name")
		}
		if item.Quantity < 1 {
			return nil, domainErrors.NewInvalidOrderItemError(i, "quantity must be at least 1")
		}
		if item.Price.IsNegative() {
			return nil, domainErrors.NewInvalidOrderItemError(i, "price must not be negative")
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	total := subtotal.Add(input.Tax).Add(input.Shipping).Sub(input.Discount)
	if input.TotalSet && !input.Total.Equal(total) {
		return nil, domainErrors.NewInvalidOrderTotalError(input.Total, total)
	}
	if total.IsNegative() {
		return nil, domainErrors.NewInvalidOrderTotalError(total, total)
	}

	orderNumber, err := newOrderNumber(s.now())
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:      input.UserID,
		OrderNumber: orderNumber,
		Items:       model.OrderItems(input.Items),
		Subtotal:    subtotal,
		Tax:         input.Tax,
		Shipping:    input.Shipping,
		Discount:    input.Discount,
		TotalAmount: total,
		Currency:    currency,
		Status:      model.OrderStatusPending,
		Notes:       input.Notes,
		Metadata:    input.Metadata,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", total.String()),
		zap.String("currency", currency))
	return order, nil
}

// GetOrder returns one order, scoped to its owner
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, domainErrors.NewNotFoundError("order", strconv.FormatInt(orderID, 10))
	}
	return order, nil
}

// ListOrders returns the user's orders newest first
func (s *OrderService) ListOrders(ctx context.Context, userID int64, limit, offset int) ([]*model.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	orders, err := s.orderRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
