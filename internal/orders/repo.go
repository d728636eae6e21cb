package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/farmfresh-backend/internal/repo"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	"github.com/angelmondragon/farmfresh-backend/pkg/pagination"
)

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *repository) CreateLineItems(ctx context.Context, items []models.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB(ctx).
		Preload("LineItems", orderedItems).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// LockByID reads the order row under a row lock, without line items.
func (r *repository) LockByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.ForUpdate(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FarmerHasItems(ctx context.Context, orderID, farmerUserID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.OrderLineItem{}).
		Where("order_id = ? AND farmer_user_id = ?", orderID, farmerUserID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus moves the order only if it still holds the observed status.
// It returns the number of rows changed.
func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, at time.Time) (int64, error) {
	res := r.DB(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]any{
			"status":            to,
			"status_changed_at": at,
			"updated_at":        at,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	var rows []models.Order
	query := r.DB(ctx).
		Preload("LineItems", orderedItems).
		Where("customer_id = ?", customerID)
	err := applyCursor(query, cursor).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByFarmer(ctx context.Context, farmerUserID uuid.UUID, status *enums.OrderStatus, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	var rows []models.Order
	query := r.DB(ctx).
		Preload("LineItems", orderedItems).
		Where("id IN (?)", r.DB(ctx).
			Model(&models.OrderLineItem{}).
			Select("order_id").
			Where("farmer_user_id = ?", farmerUserID))
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := applyCursor(query, cursor).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FarmerTotals returns, per order, the status and the farmer's share of the goods.
func (r *repository) FarmerTotals(ctx context.Context, farmerUserID uuid.UUID) ([]StatusTotal, error) {
	var rows []StatusTotal
	err := r.DB(ctx).
		Table("orders AS o").
		Select("o.id AS order_id, o.status AS status, SUM(li.line_total) AS total").
		Joins("JOIN order_line_items li ON li.order_id = o.id").
		Where("li.farmer_user_id = ?", farmerUserID).
		Group("o.id, o.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func applyCursor(query *gorm.DB, cursor *pagination.Cursor) *gorm.DB {
	if cursor == nil {
		return query
	}
	return query.Where("((created_at < ?) OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
}
