package model

import (
	"time"
)

// Address holds a postal address. Fields are optional; gateway payloads must
// omit absent fields instead of sending nulls.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// User represents a merchant customer. Orders and payments reference users by
// id only; deleting a user does not cascade.
type User struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string     `gorm:"not null;size:200" json:"name"`
	Email              string     `gorm:"unique;not null;size:255;index" json:"email"`
	GatewayCustomerID  *string    `gorm:"column:gateway_customer_id;unique;size:100" json:"gateway_customer_id,omitempty"`
	MerchantCustomerID string     `gorm:"column:merchant_customer_id;unique;size:100" json:"merchant_customer_id"`
	Address            JSONB      `gorm:"type:jsonb;default:'{}'" json:"address,omitempty"`
	CreatedAt          time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"default:now()" json:"updated_at"`
	DeletedAt          *time.Time `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
