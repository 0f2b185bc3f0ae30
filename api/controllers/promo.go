package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/api/responses"
	"github.com/curbsidehq/curbside-backend/api/validators"
	"github.com/curbsidehq/curbside-backend/internal/offers"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
)

type promoValidateRequest struct {
	Code          string  `json:"code" validate:"required"`
	SubtotalCents int     `json:"subtotal_cents,omitempty" validate:"omitempty,min=0"`
	CustomerEmail *string `json:"customer_email,omitempty" validate:"omitempty,email"`
}

type promoValidateResponse struct {
	Valid        bool                `json:"valid"`
	Message      *string             `json:"message,omitempty"`
	Code         string              `json:"code,omitempty"`
	DiscountType *enums.DiscountType `json:"discount_type,omitempty"`
	Value        int                 `json:"value,omitempty"`
}

// PromoValidate checks a promo code against the truck's active offers.
// An unusable code is reported in the body, never as an HTTP error, so
// clients surface the message without breaking the order flow.
func PromoValidate(repo offers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers repository unavailable"))
			return
		}

		truckID, err := uuid.Parse(chi.URLParam(r, "truckID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid truck id"))
			return
		}

		var payload promoValidateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		active, err := repo.ListActive(r.Context(), truckID, now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offers"))
			return
		}

		var uses map[uuid.UUID]int
		if payload.CustomerEmail != nil && *payload.CustomerEmail != "" {
			uses, err = repo.CountCustomerUses(r.Context(), truckID, *payload.CustomerEmail)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load usage counts"))
				return
			}
		}

		promo, err := offers.ValidateCode(payload.Code, active, uses, payload.SubtotalCents, now)
		if err != nil {
			message := "promo code is not valid"
			if typed := pkgerrors.As(err); typed != nil {
				message = typed.Message()
			}
			responses.WriteSuccess(w, promoValidateResponse{Valid: false, Message: &message})
			return
		}

		responses.WriteSuccess(w, promoValidateResponse{
			Valid:        true,
			Code:         promo.Code,
			DiscountType: &promo.DiscountType,
			Value:        promo.Value,
		})
	}
}
