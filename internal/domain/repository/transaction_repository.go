package repository

import (
	"context"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
)

// TransactionRepository persists gateway transactions
type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	// GetByProviderTransactionID looks a transaction up by the gateway's own
	// id, the key webhook events are matched on. Returns (nil, nil) when no
	// transaction matches.
	GetByProviderTransactionID(ctx context.Context, providerTransactionID string) (*model.Transaction, error)
	GetByPaymentID(ctx context.Context, paymentID int64) ([]*model.Transaction, error)
	// UpdateFields applies a partial column update to one transaction
	UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error
}
