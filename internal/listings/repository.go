package listings

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmfresh-backend/internal/repo"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository provides product persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository bound to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// Create inserts the product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products matching ids, keyed by id. Missing ids are omitted.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// UpdateColumns writes only the supplied columns. Unsupplied columns keep
// whatever a concurrent writer stored.
func (r *Repository) UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) (int64, error) {
	if len(columns) == 0 {
		return 0, nil
	}
	res := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(columns)
	return res.RowsAffected, res.Error
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ListByOwner returns every product of the owning user, listed or not.
func (r *Repository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCatalog returns listed products with their farm preloaded, filtered and
// ordered in SQL.
func (r *Repository) ListCatalog(ctx context.Context, filter CatalogFilter) ([]models.Product, error) {
	query := r.DB(ctx).
		Model(&models.Product{}).
		Preload("Farmer").
		Where("listed = ?", true)

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.FarmerID != nil {
		query = query.Where("farmer_id = ?", *filter.FarmerID)
	}
	if lower, upper, bounded := filter.PriceRange.Bounds(); bounded {
		query = query.Where("price >= ?", lower)
		if upper != nil {
			query = query.Where("price < ?", *upper)
		}
	}
	if filter.Search != "" {
		term := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, term, term)
	}

	switch filter.Sort {
	case enums.CatalogSortPriceLow:
		query = query.Order("price ASC")
	case enums.CatalogSortPriceHigh:
		query = query.Order("price DESC")
	case enums.CatalogSortCategory:
		query = query.Order("category ASC")
	}
	query = query.Order("LOWER(name) ASC").Order("id ASC")

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// OwnerCounts returns the total and listed product counts of the owner.
func (r *Repository) OwnerCounts(ctx context.Context, userID uuid.UUID) (total, listed int64, err error) {
	if err = r.DB(ctx).Model(&models.Product{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.DB(ctx).Model(&models.Product{}).Where("user_id = ? AND listed = ?", userID, true).Count(&listed).Error; err != nil {
		return 0, 0, err
	}
	return total, listed, nil
}
