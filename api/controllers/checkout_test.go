package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ordercontrollers "github.com/curbsidehq/curbside-backend/api/controllers/orders"
	checkoutsvc "github.com/curbsidehq/curbside-backend/internal/checkout"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

type stubCheckoutService struct {
	execute func(ctx context.Context, input checkoutsvc.Input) (*models.Order, error)
}

func (s stubCheckoutService) Execute(ctx context.Context, input checkoutsvc.Input) (*models.Order, error) {
	if s.execute != nil {
		return s.execute(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func newCheckoutRouter(svc checkoutsvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/trucks/{truckID}/checkout", Checkout(svc, nil))
	return r
}

func TestCheckoutSuccess(t *testing.T) {
	t.Parallel()

	truckID := uuid.New()
	var captured checkoutsvc.Input
	svc := stubCheckoutService{
		execute: func(ctx context.Context, input checkoutsvc.Input) (*models.Order, error) {
			captured = input
			return &models.Order{
				ID:                  uuid.New(),
				TruckID:             input.TruckID,
				CustomerName:        input.CustomerName,
				Status:              enums.OrderStatusPending,
				Currency:            enums.CurrencyUSD,
				SubtotalCents:       2400,
				OfferDiscountCents:  300,
				LoyaltyPointsSpent:  input.RedeemPoints,
				LoyaltyPointsEarned: 21,
				TotalCents:          2100,
			}, nil
		},
	}
	router := newCheckoutRouter(svc)

	body := `{"session_id":"sess-1","customer_name":"Dana","redeem_points":100}`
	req := httptest.NewRequest(http.MethodPost, "/trucks/"+truckID.String()+"/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body %s", resp.Code, resp.Body.String())
	}
	if captured.TruckID != truckID {
		t.Fatalf("expected truck %s got %s", truckID, captured.TruckID)
	}
	if captured.SessionID != "sess-1" || captured.RedeemPoints != 100 {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var envelope struct {
		Data ordercontrollers.OrderResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalCents != 2100 {
		t.Fatalf("expected total 2100 got %d", envelope.Data.TotalCents)
	}
	if envelope.Data.LoyaltyPointsSpent != 100 {
		t.Fatalf("expected 100 points spent got %d", envelope.Data.LoyaltyPointsSpent)
	}
}

func TestCheckoutRejectsInvalidTruckID(t *testing.T) {
	router := newCheckoutRouter(stubCheckoutService{})
	req := httptest.NewRequest(http.MethodPost, "/trucks/not-a-uuid/checkout", strings.NewReader(`{"session_id":"s","customer_name":"Dana"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutRequiresSessionID(t *testing.T) {
	router := newCheckoutRouter(stubCheckoutService{})
	req := httptest.NewRequest(http.MethodPost, "/trucks/"+uuid.NewString()+"/checkout", strings.NewReader(`{"customer_name":"Dana"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing session got %d", resp.Code)
	}
}

func TestCheckoutSurfacesExpiredQuote(t *testing.T) {
	svc := stubCheckoutService{
		execute: func(ctx context.Context, input checkoutsvc.Input) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart quote expired, re-quote required")
		},
	}
	router := newCheckoutRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/trucks/"+uuid.NewString()+"/checkout", strings.NewReader(`{"session_id":"sess-1","customer_name":"Dana"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for expired quote got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "re-quote") {
		t.Fatalf("expected expiry message, body: %s", resp.Body.String())
	}
}
