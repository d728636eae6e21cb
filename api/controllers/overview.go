package controllers

import (
	"net/http"

	"github.com/angelmondragon/farmfresh-backend/api/responses"
	"github.com/angelmondragon/farmfresh-backend/internal/dashboard"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

func FarmerOverview(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "dashboard service")
			return
		}
		farmerUserID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		overview, err := svc.Overview(r.Context(), farmerUserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
