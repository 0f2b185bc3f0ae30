package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/api/responses"
	"github.com/curbsidehq/curbside-backend/internal/catalog"
	"github.com/curbsidehq/curbside-backend/internal/trucks"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
)

// PublicMenu resolves a truck by id or slug and returns its menu
// snapshot together with the public truck profile.
func PublicMenu(truckSvc trucks.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if truckSvc == nil || catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		ref := strings.TrimSpace(chi.URLParam(r, "truckID"))
		if ref == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "truck reference is required"))
			return
		}

		truck, err := resolveTruck(r, truckSvc, ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menu, err := catalogSvc.GetMenu(r.Context(), truck.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"truck": truck,
			"menu":  menu,
		})
	}
}

func resolveTruck(r *http.Request, svc trucks.Service, ref string) (*trucks.TruckDTO, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return svc.GetByID(r.Context(), id)
	}
	return svc.GetBySlug(r.Context(), ref)
}
