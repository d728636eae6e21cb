package controllers

import (
	"net/http"

	"github.com/angelmondragon/farmfresh-backend/api/responses"
	"github.com/angelmondragon/farmfresh-backend/api/validators"
	"github.com/angelmondragon/farmfresh-backend/internal/address"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

type addressRequest struct {
	FullName  string `json:"full_name" validate:"max=120"`
	Street    string `json:"street" validate:"max=300"`
	City      string `json:"city" validate:"max=120"`
	State     string `json:"state" validate:"max=120"`
	Zip       string `json:"zip" validate:"max=20"`
	Phone     string `json:"phone" validate:"max=32"`
	IsDefault bool   `json:"is_default,omitempty"`
}

func (r addressRequest) toInput() address.AddressInput {
	return address.AddressInput{
		FullName: r.FullName,
		Street:   r.Street,
		City:     r.City,
		State:    r.State,
		Zip:      r.Zip,
		Phone:    r.Phone,
	}
}

type updateAddressRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=120"`
	Street   *string `json:"street,omitempty" validate:"omitempty,max=300"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=120"`
	State    *string `json:"state,omitempty" validate:"omitempty,max=120"`
	Zip      *string `json:"zip,omitempty" validate:"omitempty,max=20"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// ListAddresses returns the caller's address book. Every address handler
// responds with the full book so clients can re-render the default marker.
func ListAddresses(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "address service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		book, err := svc.ListAddresses(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, book)
	}
}

func AddAddress(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "address service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var body addressRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.AddAddress(r.Context(), customerID, body.toInput(), body.IsDefault)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, book)
	}
}

func UpdateAddress(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "address service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		addressID, ok := pathUUID(w, r, logg, "addressId")
		if !ok {
			return
		}

		var body updateAddressRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.UpdateAddress(r.Context(), customerID, addressID, address.UpdateAddressInput{
			FullName: body.FullName,
			Street:   body.Street,
			City:     body.City,
			State:    body.State,
			Zip:      body.Zip,
			Phone:    body.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, book)
	}
}

func SetDefaultAddress(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "address service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		addressID, ok := pathUUID(w, r, logg, "addressId")
		if !ok {
			return
		}

		book, err := svc.SetDefault(r.Context(), customerID, addressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, book)
	}
}

func DeleteAddress(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "address service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		addressID, ok := pathUUID(w, r, logg, "addressId")
		if !ok {
			return
		}

		book, err := svc.DeleteAddress(r.Context(), customerID, addressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, book)
	}
}
