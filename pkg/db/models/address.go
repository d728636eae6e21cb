package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a saved delivery address. Position preserves insertion order.
type Address struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	FullName   string    `gorm:"column:full_name;not null"`
	Street     string    `gorm:"column:street;not null"`
	City       string    `gorm:"column:city;not null"`
	State      string    `gorm:"column:state;not null"`
	Zip        string    `gorm:"column:zip;not null"`
	Phone      string    `gorm:"column:phone;not null"`
	IsDefault  bool      `gorm:"column:is_default;not null;default:false"`
	Position   int       `gorm:"column:position;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Address) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
