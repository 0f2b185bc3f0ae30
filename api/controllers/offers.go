package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/api/responses"
	"github.com/curbsidehq/curbside-backend/internal/offers"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

type offerResponse struct {
	ID                 uuid.UUID         `json:"id"`
	Name               string            `json:"name"`
	Description        *string           `json:"description,omitempty"`
	OfferType          enums.OfferType   `json:"offer_type"`
	StartsAt           *time.Time        `json:"starts_at,omitempty"`
	EndsAt             *time.Time        `json:"ends_at,omitempty"`
	DaysOfWeek         []int64           `json:"days_of_week,omitempty"`
	TimeStart          *string           `json:"time_start,omitempty"`
	TimeEnd            *string           `json:"time_end,omitempty"`
	MaxUses            *int              `json:"max_uses,omitempty"`
	MaxUsesPerCustomer *int              `json:"max_uses_per_customer,omitempty"`
	CurrentUses        int               `json:"current_uses"`
	Stackable          bool              `json:"stackable"`
	IsActive           bool              `json:"is_active"`
	Config             types.OfferConfig `json:"config"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// OffersList returns every offer configured for the active truck,
// including inactive and expired records, newest first.
func OffersList(repo offers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers repository unavailable"))
			return
		}

		truckID, err := activeTruckID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := repo.ListByTruck(r.Context(), truckID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offers"))
			return
		}

		out := make([]offerResponse, 0, len(records))
		for i := range records {
			out = append(out, newOfferResponse(&records[i]))
		}
		responses.WriteSuccess(w, map[string]any{"offers": out})
	}
}

func newOfferResponse(offer *models.Offer) offerResponse {
	return offerResponse{
		ID:                 offer.ID,
		Name:               offer.Name,
		Description:        offer.Description,
		OfferType:          offer.OfferType,
		StartsAt:           offer.StartsAt,
		EndsAt:             offer.EndsAt,
		DaysOfWeek:         []int64(offer.DaysOfWeek),
		TimeStart:          offer.TimeStart,
		TimeEnd:            offer.TimeEnd,
		MaxUses:            offer.MaxUses,
		MaxUsesPerCustomer: offer.MaxUsesPerCustomer,
		CurrentUses:        offer.CurrentUses,
		Stackable:          offer.Stackable,
		IsActive:           offer.IsActive,
		Config:             offer.Config,
		CreatedAt:          offer.CreatedAt,
		UpdatedAt:          offer.UpdatedAt,
	}
}
