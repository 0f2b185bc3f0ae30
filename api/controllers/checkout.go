package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ordercontrollers "github.com/curbsidehq/curbside-backend/api/controllers/orders"
	"github.com/curbsidehq/curbside-backend/api/responses"
	"github.com/curbsidehq/curbside-backend/api/validators"
	checkoutsvc "github.com/curbsidehq/curbside-backend/internal/checkout"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
)

type checkoutRequest struct {
	SessionID     string     `json:"session_id" validate:"required"`
	CustomerName  string     `json:"customer_name" validate:"required"`
	CustomerEmail *string    `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone *string    `json:"customer_phone,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	PickupAt      *time.Time `json:"pickup_at,omitempty"`
	RedeemPoints  int        `json:"redeem_points,omitempty" validate:"omitempty,min=0"`
}

// Checkout converts the session's active quote into a committed order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		truckID, err := uuid.Parse(chi.URLParam(r, "truckID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid truck id"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Execute(r.Context(), checkoutsvc.Input{
			TruckID:       truckID,
			SessionID:     payload.SessionID,
			CustomerName:  payload.CustomerName,
			CustomerEmail: payload.CustomerEmail,
			CustomerPhone: payload.CustomerPhone,
			Notes:         payload.Notes,
			PickupAt:      payload.PickupAt,
			RedeemPoints:  payload.RedeemPoints,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ordercontrollers.NewOrderResponse(order))
	}
}
