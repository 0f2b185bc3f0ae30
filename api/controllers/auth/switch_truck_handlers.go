package auth

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/api/responses"
	"github.com/curbsidehq/curbside-backend/api/validators"
	"github.com/curbsidehq/curbside-backend/internal/auth"
	pkgAuth "github.com/curbsidehq/curbside-backend/pkg/auth"
	"github.com/curbsidehq/curbside-backend/pkg/config"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
)

type switchTruckRequest struct {
	TruckID      string `json:"truck_id" validate:"required,uuid"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type switchTruckResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	Truck        auth.TruckSummary `json:"truck"`
}

// AuthSwitchTruck mints a new token pair scoped to the requested truck.
func AuthSwitchTruck(svc auth.SwitchTruckService, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "switch truck service unavailable"))
			return
		}

		var body switchTruckRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		truckID, err := uuid.Parse(body.TruckID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid truck_id"))
			return
		}

		token, err := parseBearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := pkgAuth.ParseAccessToken(cfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		result, err := svc.Switch(r.Context(), auth.SwitchTruckInput{
			UserID:        claims.UserID,
			TruckID:       truckID,
			AccessTokenID: claims.ID,
			RefreshToken:  body.RefreshToken,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-CB-Session", result.AccessToken)
		responses.WriteSuccess(w, switchTruckResponse{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			Truck:        result.Truck,
		})
	}
}
