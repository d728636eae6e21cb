package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmfresh-backend/api/middleware"
	"github.com/angelmondragon/farmfresh-backend/api/responses"
	"github.com/angelmondragon/farmfresh-backend/api/validators"
	"github.com/angelmondragon/farmfresh-backend/internal/listings"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

type createProductRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=5000"`
	Category    string           `json:"category" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	Unit        string           `json:"unit,omitempty" validate:"max=32"`
	Image       string           `json:"image,omitempty" validate:"max=2048"`
	Listed      *bool            `json:"listed,omitempty"`
}

func (r createProductRequest) toInput() listings.CreateProductInput {
	return listings.CreateProductInput{
		Name:        validators.SanitizeString(r.Name, 200),
		Description: validators.SanitizeString(r.Description, 5000),
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		Unit:        validators.SanitizeString(r.Unit, 32),
		Image:       validators.SanitizeString(r.Image, 2048),
		Listed:      r.Listed,
	}
}

// updateProductRequest is a partial body: nil pointers are not touched.
type updateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	Unit        *string          `json:"unit,omitempty" validate:"omitempty,max=32"`
	Image       *string          `json:"image,omitempty" validate:"omitempty,max=2048"`
	Listed      *bool            `json:"listed,omitempty"`
}

func (r updateProductRequest) toInput() listings.UpdateProductInput {
	return listings.UpdateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		Unit:        r.Unit,
		Image:       r.Image,
		Listed:      r.Listed,
	}
}

type listingRequest struct {
	Listed *bool `json:"listed" validate:"required"`
}

// ProductCatalog serves the public catalog with the query filters applied.
func ProductCatalog(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "listing service")
			return
		}
		filter, err := listings.ParseCatalogQuery(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.PublicCatalog(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// ProductDetail shows a product. Unlisted products are only visible to their
// owner, identified through an optional bearer token.
func ProductDetail(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "listing service")
			return
		}
		productID, ok := pathUUID(w, r, logg, "productId")
		if !ok {
			return
		}

		var viewer *uuid.UUID
		if id, ok := middleware.UserUUIDFromContext(r.Context()); ok {
			viewer = &id
		}

		product, err := svc.GetProduct(r.Context(), productID, viewer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func FarmerInventory(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "listing service")
			return
		}
		requester, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		ownerID, ok := pathUUID(w, r, logg, "userId")
		if !ok {
			return
		}

		items, err := svc.OwnerInventory(r.Context(), ownerID, requester)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func CreateProduct(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "listing service")
			return
		}
		ownerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), ownerID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "listing service")
			return
		}
		requester, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		productID, ok := pathUUID(w, r, logg, "productId")
		if !ok {
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), productID, requester, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func SetProductListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "listing service")
			return
		}
		requester, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		productID, ok := pathUUID(w, r, logg, "productId")
		if !ok {
			return
		}

		var body listingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.SetListing(r.Context(), productID, requester, *body.Listed)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "listing service")
			return
		}
		requester, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		productID, ok := pathUUID(w, r, logg, "productId")
		if !ok {
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID, requester); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
