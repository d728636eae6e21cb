package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderLineItem snapshots a product at the time the order was placed.
type OrderLineItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Position     int             `gorm:"column:position;not null"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	FarmerID     uuid.UUID       `gorm:"column:farmer_id;type:uuid;not null"`
	FarmerUserID uuid.UUID       `gorm:"column:farmer_user_id;type:uuid;not null;index"`
	Name         string          `gorm:"column:name;not null"`
	Unit         string          `gorm:"column:unit;not null"`
	Image        string          `gorm:"column:image;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	LineTotal    decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderLineItem) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
