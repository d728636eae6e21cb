package listings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

const (
	DefaultUnit  = "kg"
	DefaultImage = "/placeholder.jpg"
	// UnknownFarmerName is shown when a catalog item has no resolvable farm.
	UnknownFarmerName = "N/A"
)

// CreateProductInput holds the create payload. Nil pointers mean "not supplied".
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       *decimal.Decimal
	Stock       *int
	Unit        string
	Image       string
	Listed      *bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Stock       *int
	Unit        *string
	Image       *string
	Listed      *bool
}

// IsEmpty reports whether no field was supplied.
func (in UpdateProductInput) IsEmpty() bool {
	return in.Name == nil && in.Description == nil && in.Category == nil && in.Price == nil &&
		in.Stock == nil && in.Unit == nil && in.Image == nil && in.Listed == nil
}

// ProductDTO is the owner-facing product shape, including stock and listing state.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	FarmerID    uuid.UUID             `json:"farmer_id"`
	UserID      uuid.UUID             `json:"user_id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Category    enums.ProductCategory `json:"category"`
	Price       decimal.Decimal       `json:"price"`
	Stock       int                   `json:"stock"`
	Unit        string                `json:"unit"`
	Image       string                `json:"image"`
	Listed      bool                  `json:"listed"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CatalogProduct is a listed product enriched with its farm name.
type CatalogProduct struct {
	ID          uuid.UUID             `json:"id"`
	FarmerID    uuid.UUID             `json:"farmer_id"`
	FarmerName  string                `json:"farmer_name"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Category    enums.ProductCategory `json:"category"`
	Price       decimal.Decimal       `json:"price"`
	Stock       int                   `json:"stock"`
	Unit        string                `json:"unit"`
	Image       string                `json:"image"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		FarmerID:    p.FarmerID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Unit:        p.Unit,
		Image:       p.Image,
		Listed:      p.Listed,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CatalogFromModel maps a product with its preloaded farm into a catalog item.
func CatalogFromModel(p models.Product) CatalogProduct {
	name := UnknownFarmerName
	if p.Farmer != nil && p.Farmer.FarmName != "" {
		name = p.Farmer.FarmName
	}
	return CatalogProduct{
		ID:          p.ID,
		FarmerID:    p.FarmerID,
		FarmerName:  name,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Unit:        p.Unit,
		Image:       p.Image,
	}
}
