package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

// Order is the single canonical record behind both the customer history and the farmer queue.
// The id is supplied by the checkout draft, never generated by the database.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Reference       string            `gorm:"column:reference;not null"`
	CustomerID      uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	CustomerEmail   string            `gorm:"column:customer_email;not null"`
	CustomerPhone   string            `gorm:"column:customer_phone;not null"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee     decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	Discount        decimal.Decimal   `gorm:"column:discount;type:numeric(12,2);not null"`
	CouponCode      *string           `gorm:"column:coupon_code"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	DeliveryAddress string            `gorm:"column:delivery_address;not null"`
	DeliverySlot    string            `gorm:"column:delivery_slot;not null"`
	PaymentMethod   string            `gorm:"column:payment_method;not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null"`
	PlacedAt        time.Time         `gorm:"column:placed_at;not null"`
	StatusChangedAt time.Time         `gorm:"column:status_changed_at;not null"`
	LineItems       []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
