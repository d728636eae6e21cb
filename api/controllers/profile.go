package controllers

import (
	"net/http"

	"github.com/angelmondragon/farmfresh-backend/api/responses"
	"github.com/angelmondragon/farmfresh-backend/api/validators"
	"github.com/angelmondragon/farmfresh-backend/internal/users"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

type updateProfileRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address         *string `json:"address,omitempty" validate:"omitempty,max=500"`
	FarmName        *string `json:"farm_name,omitempty" validate:"omitempty,min=1,max=120"`
	FarmLocation    *string `json:"farm_location,omitempty" validate:"omitempty,max=200"`
	FarmDescription *string `json:"farm_description,omitempty" validate:"omitempty,max=2000"`
}

func (r updateProfileRequest) toInput() users.UpdateProfileInput {
	return users.UpdateProfileInput{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Address:         r.Address,
		FarmName:        r.FarmName,
		FarmLocation:    r.FarmLocation,
		FarmDescription: r.FarmDescription,
	}
}

func GetProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "user service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		profile, err := svc.Profile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// UpdateProfile applies a partial edit; absent fields are left alone.
func UpdateProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "user service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var body updateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), userID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// ListFarmers serves the public farm directory.
func ListFarmers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "user service")
			return
		}
		farmers, err := svc.ListFarmers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farmers)
	}
}
