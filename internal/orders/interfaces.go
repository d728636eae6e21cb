package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	"github.com/angelmondragon/farmfresh-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateLineItems(ctx context.Context, items []models.OrderLineItem) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	LockByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FarmerHasItems(ctx context.Context, orderID, farmerUserID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, at time.Time) (int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	ListByFarmer(ctx context.Context, farmerUserID uuid.UUID, status *enums.OrderStatus, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	FarmerTotals(ctx context.Context, farmerUserID uuid.UUID) ([]StatusTotal, error)
}
