package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-backend/pkg/enums"
)

// Order is a customer purchase; its line items live in order_items.
type Order struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CustomerEmail    string            `gorm:"column:customer_email;not null"`
	CustomerName     string            `gorm:"column:customer_name;not null"`
	TotalAmount      decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	PaymentReference *string           `gorm:"column:payment_reference"`
	ShippingAddress  *string           `gorm:"column:shipping_address"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
