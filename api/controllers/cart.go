package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/api/responses"
	"github.com/angelmondragon/farmfresh-backend/api/validators"
	"github.com/angelmondragon/farmfresh-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int       `json:"quantity,omitempty" validate:"omitempty,max=1000"`
}

type setCartItemRequest struct {
	Quantity int `json:"quantity" validate:"max=1000"`
}

func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cart service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		view, err := svc.View(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AddCartItem adds to the quantity already in the cart. A missing or
// non-positive quantity counts as one.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cart service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id"))
			return
		}

		view, err := svc.Add(r.Context(), customerID, productID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// SetCartItem replaces a line's quantity. Quantities below one are ignored.
func SetCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cart service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		productID, ok := pathUUID(w, r, logg, "productId")
		if !ok {
			return
		}

		var body setCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SetQuantity(r.Context(), customerID, productID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cart service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		productID, ok := pathUUID(w, r, logg, "productId")
		if !ok {
			return
		}

		view, err := svc.Remove(r.Context(), customerID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cart service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Clear(r.Context(), customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
