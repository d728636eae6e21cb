package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/farmfresh-backend/api/middleware"
	"github.com/angelmondragon/farmfresh-backend/api/responses"
	"github.com/angelmondragon/farmfresh-backend/api/validators"
	"github.com/angelmondragon/farmfresh-backend/internal/orders"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
	"github.com/angelmondragon/farmfresh-backend/pkg/pagination"
)

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

// CustomerOrders lists the caller's orders, newest first.
func CustomerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "order service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.CustomerOrders(r.Context(), customerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CustomerOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "order service")
			return
		}
		customerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		orderID, ok := pathUUID(w, r, logg, "orderId")
		if !ok {
			return
		}

		order, err := svc.CustomerOrder(r.Context(), customerID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// FarmerOrders lists orders containing the caller's products, optionally
// narrowed by ?status=.
func FarmerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "order service")
			return
		}
		farmerUserID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.OrderStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" && !strings.EqualFold(raw, "all") {
			parsed, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
					WithDetails(map[string]string{"status": err.Error()}))
				return
			}
			status = &parsed
		}

		list, err := svc.FarmerOrders(r.Context(), farmerUserID, status, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func FarmerOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "order service")
			return
		}
		farmerUserID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		orderID, ok := pathUUID(w, r, logg, "orderId")
		if !ok {
			return
		}

		order, err := svc.FarmerOrder(r.Context(), farmerUserID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// FarmerOrderStatus moves an order along its lifecycle on behalf of a farmer
// whose products appear in it.
func FarmerOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "order service")
			return
		}
		farmerUserID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		orderID, ok := pathUUID(w, r, logg, "orderId")
		if !ok {
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
				WithDetails(map[string]string{"status": err.Error()}))
			return
		}

		actor := orders.Actor{UserID: farmerUserID, Role: middleware.UserTypeFromContext(r.Context())}
		order, err := svc.Transition(r.Context(), orderID, actor, next)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
