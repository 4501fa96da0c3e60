package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// Scan implements sql.Scanner interface
func (s *OrderStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(v)
	default:
		*s = OrderStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// SupportedCurrencies is the closed set of currencies orders may be priced in
var SupportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"CAD": true,
	"AUD": true,
}

// OrderItem is a single ordered line item
type OrderItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	SKU         string          `json:"sku,omitempty"`
	Category    string          `json:"category,omitempty"`
}

// OrderItems stores line items as a jsonb array
type OrderItems []OrderItem

// Value implements driver.Valuer interface
func (i OrderItems) Value() (driver.Value, error) {
	if i == nil {
		return json.Marshal(OrderItems{})
	}
	return json.Marshal(i)
}

// Scan implements sql.Scanner interface
func (i *OrderItems) Scan(src interface{}) error {
	if src == nil {
		*i = OrderItems{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		*i = OrderItems{}
		return nil
	}
}

// Order represents a merchant order. The order number is assigned once at
// creation and never changes; total must equal subtotal + tax + shipping -
// discount, which the order service enforces before persisting.
type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64           `gorm:"not null;index:idx_orders_user_created" json:"user_id"`
	OrderNumber string          `gorm:"unique;not null;size:20" json:"order_number"`
	Items       OrderItems      `gorm:"type:jsonb;not null" json:"items"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
	Tax         decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"tax"`
	Shipping    decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"shipping"`
	Discount    decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"discount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	Currency    string          `gorm:"size:3;default:'USD'" json:"currency"`
	Status      OrderStatus     `gorm:"size:20;default:'pending';index" json:"status"`
	PaymentID   *int64          `gorm:"index" json:"payment_id,omitempty"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Metadata    JSONB           `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt   time.Time       `gorm:"default:now();index:idx_orders_user_created" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}
