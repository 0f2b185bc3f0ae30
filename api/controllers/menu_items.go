package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/curbsidehq/curbside-backend/api/responses"
	"github.com/curbsidehq/curbside-backend/api/validators"
	"github.com/curbsidehq/curbside-backend/internal/catalog"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

type menuItemRequest struct {
	CategoryID      uuid.UUID                  `json:"category_id" validate:"required"`
	Name            string                     `json:"name" validate:"required,min=1,max=160"`
	Description     *string                    `json:"description,omitempty" validate:"omitempty,max=2000"`
	BasePriceCents  int                        `json:"base_price_cents" validate:"min=0"`
	IsAvailable     *bool                      `json:"is_available,omitempty"`
	IsDailySpecial  *bool                      `json:"is_daily_special,omitempty"`
	Allergens       []string                   `json:"allergens,omitempty"`
	DisabledOptions types.UUIDList             `json:"disabled_options,omitempty"`
	OptionPrices    types.OptionPriceOverrides `json:"option_prices,omitempty"`
	ImageURL        *string                    `json:"image_url,omitempty" validate:"omitempty,url"`
	DisplayOrder    int                        `json:"display_order,omitempty" validate:"omitempty,min=0"`
}

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type menuItemResponse struct {
	ID              uuid.UUID                  `json:"id"`
	TruckID         uuid.UUID                  `json:"truck_id"`
	CategoryID      uuid.UUID                  `json:"category_id"`
	Name            string                     `json:"name"`
	Description     *string                    `json:"description,omitempty"`
	BasePriceCents  int                        `json:"base_price_cents"`
	IsAvailable     bool                       `json:"is_available"`
	IsArchived      bool                       `json:"is_archived"`
	IsDailySpecial  bool                       `json:"is_daily_special"`
	Allergens       []string                   `json:"allergens,omitempty"`
	DisabledOptions types.UUIDList             `json:"disabled_options,omitempty"`
	OptionPrices    types.OptionPriceOverrides `json:"option_prices,omitempty"`
	ImageURL        *string                    `json:"image_url,omitempty"`
	DisplayOrder    int                        `json:"display_order"`
}

func newMenuItemResponse(item *models.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:              item.ID,
		TruckID:         item.TruckID,
		CategoryID:      item.CategoryID,
		Name:            item.Name,
		Description:     item.Description,
		BasePriceCents:  item.BasePriceCents,
		IsAvailable:     item.IsAvailable,
		IsArchived:      item.IsArchived,
		IsDailySpecial:  item.IsDailySpecial,
		Allergens:       []string(item.Allergens),
		DisabledOptions: item.DisabledOptions,
		OptionPrices:    item.OptionPrices,
		ImageURL:        item.ImageURL,
		DisplayOrder:    item.DisplayOrder,
	}
}

// MenuItemCreate adds an item to the active truck's menu.
func MenuItemCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		truckID, err := activeTruckID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload menuItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := newMenuItemModel(truckID, uuid.Nil, payload)
		if err := svc.CreateItem(r.Context(), item); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newMenuItemResponse(item))
	}
}

// MenuItemUpdate replaces the editable fields of one menu item.
func MenuItemUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		truckID, err := activeTruckID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := menuItemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload menuItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := newMenuItemModel(truckID, itemID, payload)
		if err := svc.UpdateItem(r.Context(), item); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newMenuItemResponse(item))
	}
}

// MenuItemSetAvailability toggles the sold-out flag without touching the
// rest of the item.
func MenuItemSetAvailability(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		truckID, err := activeTruckID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := menuItemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload availabilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetItemAvailability(r.Context(), truckID, itemID, *payload.IsAvailable); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": itemID, "is_available": *payload.IsAvailable})
	}
}

// MenuItemArchive soft-deletes the item so past orders keep their names.
func MenuItemArchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		truckID, err := activeTruckID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := menuItemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ArchiveItem(r.Context(), truckID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": itemID, "archived": true})
	}
}

func newMenuItemModel(truckID, itemID uuid.UUID, payload menuItemRequest) *models.MenuItem {
	available := true
	if payload.IsAvailable != nil {
		available = *payload.IsAvailable
	}
	dailySpecial := false
	if payload.IsDailySpecial != nil {
		dailySpecial = *payload.IsDailySpecial
	}
	return &models.MenuItem{
		ID:              itemID,
		TruckID:         truckID,
		CategoryID:      payload.CategoryID,
		Name:            validators.SanitizeString(payload.Name, 160),
		Description:     payload.Description,
		BasePriceCents:  payload.BasePriceCents,
		IsAvailable:     available,
		IsDailySpecial:  dailySpecial,
		Allergens:       pq.StringArray(payload.Allergens),
		DisabledOptions: payload.DisabledOptions,
		OptionPrices:    payload.OptionPrices,
		ImageURL:        payload.ImageURL,
		DisplayOrder:    payload.DisplayOrder,
	}
}

func menuItemIDFromPath(r *http.Request) (uuid.UUID, error) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu item id")
	}
	return itemID, nil
}
