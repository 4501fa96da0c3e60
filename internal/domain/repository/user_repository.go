package repository

import (
	"context"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
)

// UserRepository persists merchant customers
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGatewayCustomerID(ctx context.Context, gatewayCustomerID string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}
