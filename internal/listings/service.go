package listings

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmfresh-backend/internal/users"
	"github.com/angelmondragon/farmfresh-backend/pkg/db"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
	"github.com/angelmondragon/farmfresh-backend/pkg/visibility"
)

// Service exposes farmer product management and the public catalog.
type Service interface {
	CreateProduct(ctx context.Context, ownerUserID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID, requesterUserID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	SetListing(ctx context.Context, productID, requesterUserID uuid.UUID, listed bool) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID, requesterUserID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID, viewerUserID *uuid.UUID) (*ProductDTO, error)
	PublicCatalog(ctx context.Context, filter CatalogFilter) ([]CatalogProduct, error)
	OwnerInventory(ctx context.Context, ownerUserID, requesterUserID uuid.UUID) ([]ProductDTO, error)
}

type catalogCache interface {
	Load(ctx context.Context) ([]CatalogProduct, bool, error)
	Store(ctx context.Context, items []CatalogProduct) error
	Invalidate(ctx context.Context) error
}

// ServiceParams bundles the listing service dependencies. Cache and Logger are optional.
type ServiceParams struct {
	Repo    *Repository
	Farmers *users.FarmerRepository
	DB      db.TxRunner
	Cache   catalogCache
	Logger  *logger.Logger
}

type service struct {
	repo    *Repository
	farmers *users.FarmerRepository
	tx      db.TxRunner
	cache   catalogCache
	logg    *logger.Logger
}

// NewService constructs the listing service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Farmers == nil {
		return nil, fmt.Errorf("farmer repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:    params.Repo,
		farmers: params.Farmers,
		tx:      params.DB,
		cache:   params.Cache,
		logg:    params.Logger,
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, ownerUserID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	product, err := newProductFromInput(input)
	if err != nil {
		return nil, err
	}

	var created *models.Product
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		farmers := s.farmers.WithTx(tx)
		profile, err := farmers.FindByUserID(ctx, ownerUserID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "farmer profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load farmer profile")
		}

		product.FarmerID = profile.ID
		product.UserID = ownerUserID
		created, err = s.repo.WithTx(tx).Create(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		if err := farmers.AppendProductID(ctx, profile.ID, created.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append farmer product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	return FromModel(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID, requesterUserID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	columns, err := updateColumns(input)
	if err != nil {
		return nil, err
	}
	return s.applyColumns(ctx, productID, requesterUserID, columns)
}

func (s *service) SetListing(ctx context.Context, productID, requesterUserID uuid.UUID, listed bool) (*ProductDTO, error) {
	return s.applyColumns(ctx, productID, requesterUserID, map[string]any{"listed": listed})
}

func (s *service) applyColumns(ctx context.Context, productID, requesterUserID uuid.UUID, columns map[string]any) (*ProductDTO, error) {
	if _, err := s.loadOwned(ctx, s.repo, productID, requesterUserID); err != nil {
		return nil, err
	}
	if _, err := s.repo.UpdateColumns(ctx, productID, columns); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	updated, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
	}
	s.invalidateCatalog(ctx)
	return FromModel(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, productID, requesterUserID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product, err := s.loadOwned(ctx, txRepo, productID, requesterUserID)
		if err != nil {
			return err
		}
		if err := txRepo.Delete(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
		}
		if err := s.farmers.WithTx(tx).RemoveProductID(ctx, product.FarmerID, productID); err != nil && !db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: detach farmer product")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID, viewerUserID *uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if err := visibility.EnsureProductVisible(visibility.ProductVisibilityInput{
		Product:      product,
		ViewerUserID: viewerUserID,
	}); err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

// PublicCatalog serves listed products. When the database read fails the last
// cached snapshot is filtered in memory instead.
func (s *service) PublicCatalog(ctx context.Context, filter CatalogFilter) ([]CatalogProduct, error) {
	rows, err := s.repo.ListCatalog(ctx, filter)
	if err != nil {
		return s.catalogFallback(ctx, filter, err)
	}

	items := make([]CatalogProduct, 0, len(rows))
	for _, row := range rows {
		items = append(items, CatalogFromModel(row))
	}
	if s.cache != nil && filter.Unfiltered() {
		if cacheErr := s.cache.Store(ctx, items); cacheErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", cacheErr.Error()), "catalog.cache.store_failed")
		}
	}
	return items, nil
}

func (s *service) catalogFallback(ctx context.Context, filter CatalogFilter, cause error) ([]CatalogProduct, error) {
	if s.cache == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "db: list catalog")
	}
	cached, ok, cacheErr := s.cache.Load(ctx)
	if cacheErr != nil || !ok {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "db: list catalog")
	}
	if s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"error":        cause.Error(),
			"cached_items": len(cached),
		}), "catalog.cache.fallback")
	}
	return filter.Apply(cached), nil
}

func (s *service) OwnerInventory(ctx context.Context, ownerUserID, requesterUserID uuid.UUID) ([]ProductDTO, error) {
	if ownerUserID != requesterUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "inventory belongs to another farmer")
	}
	rows, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list owner products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) loadOwned(ctx context.Context, repo *Repository, productID, requesterUserID uuid.UUID) (*models.Product, error) {
	product, err := repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if err := visibility.EnsureProductOwner(product, requesterUserID); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog.cache.invalidate_failed")
	}
}

func newProductFromInput(input CreateProductInput) (*models.Product, error) {
	details := map[string]string{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		details["name"] = "name is required"
	}

	var category enums.ProductCategory
	if strings.TrimSpace(input.Category) == "" {
		details["category"] = "category is required"
	} else if parsed, err := enums.ParseProductCategory(input.Category); err != nil {
		details["category"] = err.Error()
	} else {
		category = parsed
	}

	if input.Price == nil {
		details["price"] = "price is required"
	} else if msg := validatePrice(*input.Price); msg != "" {
		details["price"] = msg
	}

	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
		if stock < 0 {
			details["stock"] = "stock cannot be negative"
		}
	}

	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = fmt.Sprintf("Fresh %s from our farm.", strings.ToLower(name))
	}
	listed := true
	if input.Listed != nil {
		listed = *input.Listed
	}

	return &models.Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       input.Price.Round(2),
		Stock:       stock,
		Unit:        valueOr(input.Unit, DefaultUnit),
		Image:       valueOr(input.Image, DefaultImage),
		Listed:      listed,
	}, nil
}

// updateColumns validates the supplied fields and maps them onto product columns.
func updateColumns(input UpdateProductInput) (map[string]any, error) {
	if input.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	details := map[string]string{}
	columns := map[string]any{}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name == "" {
			details["name"] = "name cannot be empty"
		} else {
			columns["name"] = name
		}
	}
	if input.Description != nil {
		columns["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		if category, err := enums.ParseProductCategory(*input.Category); err != nil {
			details["category"] = err.Error()
		} else {
			columns["category"] = category
		}
	}
	if input.Price != nil {
		if msg := validatePrice(*input.Price); msg != "" {
			details["price"] = msg
		} else {
			columns["price"] = input.Price.Round(2)
		}
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			details["stock"] = "stock cannot be negative"
		} else {
			columns["stock"] = *input.Stock
		}
	}
	if input.Unit != nil {
		columns["unit"] = valueOr(*input.Unit, DefaultUnit)
	}
	if input.Image != nil {
		columns["image"] = valueOr(*input.Image, DefaultImage)
	}
	if input.Listed != nil {
		columns["listed"] = *input.Listed
	}

	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return columns, nil
}

func validatePrice(price decimal.Decimal) string {
	if !price.Round(2).IsPositive() {
		return "price must be greater than zero"
	}
	return ""
}

func valueOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
