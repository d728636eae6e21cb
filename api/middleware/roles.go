package middleware

import (
	"net/http"

	"github.com/angelmondragon/farmfresh-backend/api/responses"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

// RequireUserType rejects callers whose token carries a different account type.
func RequireUserType(userType enums.UserType, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserTypeFromContext(r.Context()) != userType {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, string(userType)+" account required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
