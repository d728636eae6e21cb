package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmfresh-backend/internal/repo"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
)

// Repository persists customer addresses.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// ListByCustomer returns the customer's addresses in storage order.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	if err := r.DB(ctx).
		Where("customer_id = ?", customerID).
		Order("position ASC").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LockByCustomer reads the customer's addresses with row locks, in storage order.
func (r *Repository) LockByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	if err := r.ForUpdate(ctx).
		Where("customer_id = ?", customerID).
		Order("position ASC").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindOwned loads an address only when it belongs to the customer.
func (r *Repository) FindOwned(ctx context.Context, customerID, addressID uuid.UUID) (*models.Address, error) {
	var row models.Address
	if err := r.DB(ctx).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, row *models.Address) error {
	return r.DB(ctx).Create(row).Error
}

// UpdateFields writes the supplied columns of an owned address.
func (r *Repository) UpdateFields(ctx context.Context, customerID, addressID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB(ctx).
		Model(&models.Address{}).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		Updates(fields).Error
}

// ClearDefault demotes every address of the customer.
func (r *Repository) ClearDefault(ctx context.Context, customerID uuid.UUID) error {
	return r.DB(ctx).
		Model(&models.Address{}).
		Where("customer_id = ? AND is_default = ?", customerID, true).
		Update("is_default", false).Error
}

// MarkDefault promotes a single address.
func (r *Repository) MarkDefault(ctx context.Context, customerID, addressID uuid.UUID) error {
	return r.DB(ctx).
		Model(&models.Address{}).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		Update("is_default", true).Error
}

func (r *Repository) Delete(ctx context.Context, customerID, addressID uuid.UUID) error {
	return r.DB(ctx).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		Delete(&models.Address{}).Error
}
