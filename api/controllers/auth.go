package controllers

import (
	"net/http"

	"github.com/angelmondragon/farmfresh-backend/api/responses"
	"github.com/angelmondragon/farmfresh-backend/api/validators"
	"github.com/angelmondragon/farmfresh-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

// AuthLogin signs a customer or farmer in and returns the token pair.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthRegister creates the account and signs it in straight away.
func AuthRegister(reg auth.RegisterService, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil || svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := reg.Register(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginRequest{
			Email:    body.Email,
			Password: body.Password,
			UserType: body.UserType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign in after register"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
