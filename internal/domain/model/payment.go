package model

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the internal status of a payment
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusDisputed   PaymentStatus = "disputed"
)

// Scan implements sql.Scanner interface
func (s *PaymentStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = PaymentStatus(v)
	case []byte:
		*s = PaymentStatus(v)
	default:
		*s = PaymentStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s PaymentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// PaymentType distinguishes purchases from the records reconciliation creates
// for refunds and chargebacks
type PaymentType string

const (
	PaymentTypePurchase   PaymentType = "purchase"
	PaymentTypeRefund     PaymentType = "refund"
	PaymentTypeChargeback PaymentType = "chargeback"
)

// PaymentFees holds the gateway fee breakdown for a payment
type PaymentFees struct {
	Provider   decimal.Decimal `json:"provider"`
	Processing decimal.Decimal `json:"processing"`
	Total      decimal.Decimal `json:"total"`
}

// Payment represents a payment record. A payment is created either at
// checkout initiation or by the refund reconciliation handler.
type Payment struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             int64           `gorm:"not null;index:idx_payments_user_created" json:"user_id"`
	OrderID            *int64          `gorm:"index" json:"order_id,omitempty"`
	CheckoutSessionID  *int64          `gorm:"unique" json:"checkout_session_id,omitempty"`
	Amount             decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency           string          `gorm:"size:3;default:'USD'" json:"currency"`
	Status             PaymentStatus   `gorm:"size:20;default:'pending';index" json:"status"`
	Type               PaymentType     `gorm:"size:20;default:'purchase'" json:"type"`
	GatewayPaymentID   *string         `gorm:"column:gateway_payment_id;unique;size:100" json:"gateway_payment_id,omitempty"`
	ConfirmationNumber string          `gorm:"unique;not null;size:20;index" json:"confirmation_number"`
	Description        string          `json:"description,omitempty"`
	FailureReason      *string         `json:"failure_reason,omitempty"`
	RefundAmount       decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"refund_amount"`
	FeeProvider        decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"fee_provider"`
	FeeProcessing      decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"fee_processing"`
	FeeTotal           decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"fee_total"`
	Metadata           JSONB           `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	ProcessedAt        *time.Time      `json:"processed_at,omitempty"`
	CreatedAt          time.Time       `gorm:"default:now();index:idx_payments_user_created" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// Fees returns the fee breakdown as a single value
func (p *Payment) Fees() PaymentFees {
	return PaymentFees{
		Provider:   p.FeeProvider,
		Processing: p.FeeProcessing,
		Total:      p.FeeTotal,
	}
}
