package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/api/middleware"
	"github.com/angelmondragon/farmfresh-backend/api/responses"
	"github.com/angelmondragon/farmfresh-backend/api/validators"
	"github.com/angelmondragon/farmfresh-backend/internal/checkout"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

type checkoutRequest struct {
	AddressID         *string         `json:"address_id,omitempty" validate:"omitempty,uuid"`
	Address           *addressRequest `json:"address,omitempty"`
	SaveAddress       *bool           `json:"save_address,omitempty"`
	DeliverySlot      string          `json:"delivery_slot,omitempty"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	OnlinePaymentType string          `json:"online_payment_type,omitempty"`
	CouponCode        string          `json:"coupon_code,omitempty" validate:"max=64"`
}

type quoteRequest struct {
	CouponCode string `json:"coupon_code,omitempty" validate:"max=64"`
}

func (r checkoutRequest) toInput(idempotencyKey string) (checkout.PlaceOrderInput, error) {
	input := checkout.PlaceOrderInput{
		SaveAddress:    r.SaveAddress == nil || *r.SaveAddress,
		CouponCode:     r.CouponCode,
		IdempotencyKey: idempotencyKey,
	}
	details := map[string]string{}

	if r.AddressID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*r.AddressID))
		if err != nil {
			details["address_id"] = "must be a uuid"
		} else {
			input.AddressID = &id
		}
	}
	if r.Address != nil {
		inline := r.Address.toInput()
		input.Address = &inline
	}

	var err error
	if input.DeliverySlot, err = enums.ParseDeliverySlot(r.DeliverySlot); err != nil {
		details["delivery_slot"] = err.Error()
	}
	if input.PaymentMethod, err = enums.ParsePaymentMethod(r.PaymentMethod); err != nil {
		details["payment_method"] = err.Error()
	}
	if input.PaymentMethod == enums.PaymentMethodOnline {
		if input.OnlinePaymentType, err = enums.ParseOnlinePaymentType(r.OnlinePaymentType); err != nil {
			details["online_payment_type"] = err.Error()
		}
	}

	if len(details) > 0 {
		return checkout.PlaceOrderInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout request").WithDetails(details)
	}
	return input, nil
}

// CheckoutQuote prices the caller's cart without placing an order.
func CheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "checkout service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var body quoteRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		quote, err := svc.Quote(r.Context(), customerID, body.CouponCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutPlace places the order. The Idempotency-Key header also seeds the
// order id, so a retried submission resolves to the order it already created.
func CheckoutPlace(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "checkout service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		key := strings.TrimSpace(r.Header.Get(middleware.IdempotencyHeader))
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput(key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), customerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

