package repository

import (
	"context"
	"time"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
)

// OrderRepository persists orders
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error
	// MarkPaid transitions the order to paid and records the payment link and
	// paid timestamp in one update
	MarkPaid(ctx context.Context, id int64, paymentID int64, paidAt time.Time) error
}
