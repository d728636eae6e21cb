package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/angelmondragon/farmfresh-backend/pkg/db/types"
)

// FarmerProfile holds the farm details of a farmer user and the ordered ids of the products it owns.
type FarmerProfile struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FarmName        string            `gorm:"column:farm_name;not null"`
	FarmLocation    string            `gorm:"column:farm_location;not null"`
	FarmDescription *string           `gorm:"column:farm_description"`
	ProductIDs      dbtypes.UUIDArray `gorm:"column:product_ids;type:uuid[];not null"`
	User            *User             `gorm:"foreignKey:UserID"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (f *FarmerProfile) BeforeCreate(*gorm.DB) error {
	assignID(&f.ID)
	if f.ProductIDs == nil {
		f.ProductIDs = dbtypes.UUIDArray{}
	}
	return nil
}
