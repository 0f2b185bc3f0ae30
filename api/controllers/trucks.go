package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/api/middleware"
	"github.com/curbsidehq/curbside-backend/api/responses"
	"github.com/curbsidehq/curbside-backend/api/validators"
	"github.com/curbsidehq/curbside-backend/internal/trucks"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// TruckProfile returns the active truck's profile using the truck-scoped JWT.
func TruckProfile(svc trucks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "truck service unavailable"))
			return
		}

		truckID, err := activeTruckID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		truck, err := svc.GetByID(r.Context(), truckID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, truck)
	}
}

// TruckList returns every truck the authenticated user can operate.
func TruckList(svc trucks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "truck service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"trucks": list})
	}
}

type truckUpdateRequest struct {
	Name                *string       `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description         *string       `json:"description,omitempty" validate:"omitempty,max=2000"`
	Phone               *string       `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email               *string       `json:"email,omitempty" validate:"omitempty,email"`
	Social              *types.Social `json:"social,omitempty"`
	BannerURL           *string       `json:"banner_url,omitempty" validate:"omitempty,url"`
	LogoURL             *string       `json:"logo_url,omitempty" validate:"omitempty,url"`
	PromoCodesStackable *bool         `json:"promo_codes_stackable,omitempty"`
	OffersStackable     *bool         `json:"offers_stackable,omitempty"`
	LoyaltyEnabled      *bool         `json:"loyalty_enabled,omitempty"`
	OrderingPaused      *bool         `json:"ordering_paused,omitempty"`
	MinPrepTimeMinutes  *int          `json:"min_prep_time_minutes,omitempty" validate:"omitempty,min=0,max=240"`
}

// TruckUpdate applies the submitted fields to the active truck. Nil
// fields leave the stored value untouched.
func TruckUpdate(svc trucks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "truck service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		truckID, err := activeTruckID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload truckUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		truck, err := svc.Update(r.Context(), userID, truckID, trucks.UpdateTruckInput{
			Name:                payload.Name,
			Description:         payload.Description,
			Phone:               payload.Phone,
			Email:               payload.Email,
			Social:              payload.Social,
			BannerURL:           payload.BannerURL,
			LogoURL:             payload.LogoURL,
			PromoCodesStackable: payload.PromoCodesStackable,
			OffersStackable:     payload.OffersStackable,
			LoyaltyEnabled:      payload.LoyaltyEnabled,
			OrderingPaused:      payload.OrderingPaused,
			MinPrepTimeMinutes:  payload.MinPrepTimeMinutes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, truck)
	}
}

func activeTruckID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.TruckIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "truck context missing")
	}
	truckID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid truck id")
	}
	return truckID, nil
}

func authenticatedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, nil
}
