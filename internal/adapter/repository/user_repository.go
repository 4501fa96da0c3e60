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

type userRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, logger *zap.Logger) domainRepo.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new user
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.logger.Error("Failed to create user",
			zap.String("email", user.Email),
			zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User

	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get user",
			zap.Int64("user_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetByGatewayCustomerID retrieves a user by the gateway customer id
func (r *userRepository) GetByGatewayCustomerID(ctx context.Context, gatewayCustomerID string) (*model.User, error) {
	var user model.User

	err := r.db.WithContext(ctx).
		Where("gateway_customer_id = ?", gatewayCustomerID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get user by gateway customer id",
			zap.String("gateway_customer_id", gatewayCustomerID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get user by gateway customer id: %w", err)
	}

	return &user, nil
}

// Update persists changes to an existing user
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		r.logger.Error("Failed to update user",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}
