package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutSessionStatus represents the lifecycle of a checkout session
type CheckoutSessionStatus string

const (
	CheckoutSessionStatusPending   CheckoutSessionStatus = "pending"
	CheckoutSessionStatusCompleted CheckoutSessionStatus = "completed"
	CheckoutSessionStatusFailed    CheckoutSessionStatus = "failed"
	CheckoutSessionStatusExpired   CheckoutSessionStatus = "expired"
)

// CheckoutSessionTTL is how long a gateway checkout session stays usable
const CheckoutSessionTTL = 15 * time.Minute

// CheckoutSession binds a gateway-issued checkout context to a local order
// and user while the client-side payment collection flow runs.
type CheckoutSession struct {
	ID                  int64                 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              int64                 `gorm:"not null;index" json:"user_id"`
	OrderID             int64                 `gorm:"not null;index" json:"order_id"`
	GatewaySessionID    string                `gorm:"column:gateway_session_id;unique;not null;size:200" json:"gateway_session_id"`
	GatewayClientSecret *string               `gorm:"column:gateway_client_secret;size:200" json:"-"`
	Amount              decimal.Decimal       `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency            string                `gorm:"size:3;default:'USD'" json:"currency"`
	Status              CheckoutSessionStatus `gorm:"size:20;default:'pending';index" json:"status"`
	ExpiresAt           time.Time             `gorm:"not null" json:"expires_at"`
	CreatedAt           time.Time             `gorm:"default:now()" json:"created_at"`
	UpdatedAt           time.Time             `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CheckoutSession) TableName() string {
	return "checkout_sessions"
}

// Expired reports whether the session can no longer be used for collection
func (s *CheckoutSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
