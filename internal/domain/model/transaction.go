package model

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// ProviderYuno is the only payment gateway this service talks to
const ProviderYuno = "yuno"

// TransactionStatus represents the internal status of a gateway transaction.
// Gateway-native uppercase statuses never reach this type; they are mapped to
// the internal vocabulary before a transaction is written.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
	TransactionStatusRefunded   TransactionStatus = "refunded"
)

// Scan implements sql.Scanner interface
func (s *TransactionStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = TransactionStatus(v)
	case []byte:
		*s = TransactionStatus(v)
	default:
		*s = TransactionStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s TransactionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Transaction represents one gateway-side payment attempt. The provider
// transaction id is the natural idempotency key webhooks are matched on.
// Refunds create a new transaction linked to a new refund payment; the
// original transaction's monetary fields are never mutated.
type Transaction struct {
	ID                    int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID             int64             `gorm:"not null;index" json:"payment_id"`
	ProviderName          string            `gorm:"not null;size:20;default:'yuno'" json:"provider_name"`
	ProviderTransactionID string            `gorm:"column:provider_transaction_id;unique;not null;size:100" json:"provider_transaction_id"`
	Amount                decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency              string            `gorm:"size:3;default:'USD'" json:"currency"`
	Status                TransactionStatus `gorm:"size:20;default:'pending';index" json:"status"`
	ProviderResponse      JSONB             `gorm:"type:jsonb" json:"provider_response,omitempty"`
	FailureReason         *string           `json:"failure_reason,omitempty"`
	ProcessedAt           *time.Time        `json:"processed_at,omitempty"`
	Metadata              JSONB             `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt             time.Time         `gorm:"default:now();index" json:"created_at"`
	UpdatedAt             time.Time         `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}
