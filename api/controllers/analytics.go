package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/curbsidehq/curbside-backend/api/middleware"
	"github.com/curbsidehq/curbside-backend/api/responses"
	"github.com/curbsidehq/curbside-backend/internal/analytics"
	analyticstypes "github.com/curbsidehq/curbside-backend/internal/analytics/types"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
)

const defaultDashboardWindow = 30 * 24 * time.Hour

// DashboardAnalytics returns the truck's KPI series for the requested
// window. Missing bounds default to the trailing thirty days.
func DashboardAnalytics(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		truckID := middleware.TruckIDFromContext(r.Context())
		if truckID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "truck context missing"))
			return
		}

		end := time.Now().UTC()
		if raw := strings.TrimSpace(r.URL.Query().Get("end")); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end"))
				return
			}
			end = parsed
		}

		start := end.Add(-defaultDashboardWindow)
		if raw := strings.TrimSpace(r.URL.Query().Get("start")); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start"))
				return
			}
			start = parsed
		}

		result, err := svc.Query(r.Context(), analyticstypes.DashboardQueryRequest{
			TruckID: truckID,
			Start:   start,
			End:     end,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
