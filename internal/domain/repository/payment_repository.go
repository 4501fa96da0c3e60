package repository

import (
	"context"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
)

// PaymentRepository persists payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*model.Payment, error)
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*model.Payment, error)
	// UpdateFields applies a partial column update to one payment
	UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error
}
