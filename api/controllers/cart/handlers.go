package cart

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	cartdto "github.com/curbsidehq/curbside-backend/api/controllers/cart/dto"
	"github.com/curbsidehq/curbside-backend/api/responses"
	"github.com/curbsidehq/curbside-backend/api/validators"
	cartsvc "github.com/curbsidehq/curbside-backend/internal/cart"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
)

// CartQuote prices the submitted cart snapshot and persists it as the
// session's active quote.
func CartQuote(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		truckID, err := truckIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.QuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Quote(r.Context(), toQuoteInput(truckID, payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartQuote(result))
	}
}

// CartFetch returns the session's active quote, if any.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		truckID, err := truckIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session_id is required"))
			return
		}

		record, err := svc.GetActive(r.Context(), truckID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartQuote(&cartsvc.QuoteResult{Cart: record}))
	}
}

func truckIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "truckID")
	truckID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid truck id")
	}
	return truckID, nil
}
