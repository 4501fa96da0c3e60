package repository

import (
	"context"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
)

// CheckoutSessionRepository persists gateway checkout sessions
type CheckoutSessionRepository interface {
	Create(ctx context.Context, session *model.CheckoutSession) error
	GetByID(ctx context.Context, id int64) (*model.CheckoutSession, error)
	GetByGatewaySessionID(ctx context.Context, gatewaySessionID string) (*model.CheckoutSession, error)
	UpdateStatus(ctx context.Context, id int64, status model.CheckoutSessionStatus) error
}
