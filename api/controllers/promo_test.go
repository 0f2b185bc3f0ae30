package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/internal/offers"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

type stubOffersRepo struct {
	active func(ctx context.Context, truckID uuid.UUID, now time.Time) ([]models.Offer, error)
	uses   func(ctx context.Context, truckID uuid.UUID, customerEmail string) (map[uuid.UUID]int, error)
}

func (s *stubOffersRepo) WithTx(tx *gorm.DB) offers.Repository {
	return s
}

func (s *stubOffersRepo) ListActive(ctx context.Context, truckID uuid.UUID, now time.Time) ([]models.Offer, error) {
	if s.active != nil {
		return s.active(ctx, truckID, now)
	}
	return nil, nil
}

// ListByTruck implements [offers.Repository].
func (s *stubOffersRepo) ListByTruck(ctx context.Context, truckID uuid.UUID) ([]models.Offer, error) {
	panic("unimplemented")
}

// FindByID implements [offers.Repository].
func (s *stubOffersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	panic("unimplemented")
}

func (s *stubOffersRepo) CountCustomerUses(ctx context.Context, truckID uuid.UUID, customerEmail string) (map[uuid.UUID]int, error) {
	if s.uses != nil {
		return s.uses(ctx, truckID, customerEmail)
	}
	return map[uuid.UUID]int{}, nil
}

// IncrementUsage implements [offers.Repository].
func (s *stubOffersRepo) IncrementUsage(ctx context.Context, offerID uuid.UUID) error {
	panic("unimplemented")
}

// RecordRedemption implements [offers.Repository].
func (s *stubOffersRepo) RecordRedemption(ctx context.Context, redemption *models.OfferRedemption) error {
	panic("unimplemented")
}

// ExpireEnded implements [offers.Repository].
func (s *stubOffersRepo) ExpireEnded(ctx context.Context, now time.Time) ([]models.Offer, error) {
	panic("unimplemented")
}

func promoOffer(code string, minSubtotal int) models.Offer {
	return models.Offer{
		ID:        uuid.New(),
		Name:      "Promo " + code,
		OfferType: enums.OfferTypePromoCode,
		IsActive:  true,
		Config: types.OfferConfig{
			PromoCode: &types.PromoCodeConfig{
				Code:             code,
				DiscountType:     enums.DiscountTypePercentage,
				Value:            10,
				MinSubtotalCents: minSubtotal,
			},
		},
	}
}

func newPromoRouter(repo offers.Repository) http.Handler {
	r := chi.NewRouter()
	r.Post("/trucks/{truckID}/promos/validate", PromoValidate(repo, nil))
	return r
}

func postPromo(t *testing.T, router http.Handler, truckID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/trucks/"+truckID+"/promos/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestPromoValidateAcceptsKnownCode(t *testing.T) {
	t.Parallel()

	repo := &stubOffersRepo{
		active: func(ctx context.Context, truckID uuid.UUID, now time.Time) ([]models.Offer, error) {
			return []models.Offer{promoOffer("TACO10", 0)}, nil
		},
	}
	resp := postPromo(t, newPromoRouter(repo), uuid.NewString(), `{"code":"taco10"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data promoValidateResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Valid {
		t.Fatalf("expected valid code, body: %+v", envelope.Data)
	}
	if envelope.Data.Code != "TACO10" || envelope.Data.Value != 10 {
		t.Fatalf("unexpected promo payload: %+v", envelope.Data)
	}
}

func TestPromoValidateReportsUnknownCodeWithoutHTTPError(t *testing.T) {
	repo := &stubOffersRepo{}
	resp := postPromo(t, newPromoRouter(repo), uuid.NewString(), `{"code":"NOPE"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown code got %d", resp.Code)
	}
	var envelope struct {
		Data promoValidateResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Valid {
		t.Fatal("expected invalid code")
	}
	if envelope.Data.Message == nil || !strings.Contains(*envelope.Data.Message, "not recognized") {
		t.Fatalf("expected recognition message, got %+v", envelope.Data.Message)
	}
}

func TestPromoValidateEnforcesMinimumSubtotal(t *testing.T) {
	repo := &stubOffersRepo{
		active: func(ctx context.Context, truckID uuid.UUID, now time.Time) ([]models.Offer, error) {
			return []models.Offer{promoOffer("BIGORDER", 5000)}, nil
		},
	}
	resp := postPromo(t, newPromoRouter(repo), uuid.NewString(), `{"code":"BIGORDER","subtotal_cents":1200}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data promoValidateResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Valid {
		t.Fatal("expected code below minimum to be invalid")
	}
	if envelope.Data.Message == nil || !strings.Contains(*envelope.Data.Message, "minimum") {
		t.Fatalf("expected minimum message, got %+v", envelope.Data.Message)
	}
}

func TestPromoValidateChecksCustomerUsageCaps(t *testing.T) {
	offer := promoOffer("ONEPER", 0)
	perCustomer := 1
	offer.MaxUsesPerCustomer = &perCustomer

	repo := &stubOffersRepo{
		active: func(ctx context.Context, truckID uuid.UUID, now time.Time) ([]models.Offer, error) {
			return []models.Offer{offer}, nil
		},
		uses: func(ctx context.Context, truckID uuid.UUID, customerEmail string) (map[uuid.UUID]int, error) {
			if customerEmail != "dana@example.com" {
				t.Fatalf("unexpected email %q", customerEmail)
			}
			return map[uuid.UUID]int{offer.ID: 1}, nil
		},
	}
	resp := postPromo(t, newPromoRouter(repo), uuid.NewString(), `{"code":"ONEPER","customer_email":"dana@example.com"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data promoValidateResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Valid {
		t.Fatal("expected exhausted code to be invalid")
	}
	if envelope.Data.Message == nil || !strings.Contains(*envelope.Data.Message, "limit") {
		t.Fatalf("expected usage limit message, got %+v", envelope.Data.Message)
	}
}

func TestPromoValidateRequiresCode(t *testing.T) {
	resp := postPromo(t, newPromoRouter(&stubOffersRepo{}), uuid.NewString(), `{}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing code got %d", resp.Code)
	}
}
