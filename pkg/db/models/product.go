package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

// Product is a farmer listing. Only listed products appear in the public catalog.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID    uuid.UUID             `gorm:"column:farmer_id;type:uuid;not null;index"`
	UserID      uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Name        string                `gorm:"column:name;not null"`
	Description string                `gorm:"column:description;not null"`
	Category    enums.ProductCategory `gorm:"column:category;not null"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	Stock       int                   `gorm:"column:stock;not null;default:0"`
	Unit        string                `gorm:"column:unit;not null"`
	Image       string                `gorm:"column:image;not null"`
	Listed      bool                  `gorm:"column:listed;not null"`
	Farmer      *FarmerProfile        `gorm:"foreignKey:FarmerID"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
