package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/internal/auth"
	"github.com/curbsidehq/curbside-backend/pkg/auth/session"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

type stubSwitchService struct {
	switchFn func(ctx context.Context, input auth.SwitchTruckInput) (*auth.SwitchTruckResult, error)
}

func (s stubSwitchService) Switch(ctx context.Context, input auth.SwitchTruckInput) (*auth.SwitchTruckResult, error) {
	if s.switchFn != nil {
		return s.switchFn(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func TestSwitchTruckMintsNewPair(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	jti := session.NewAccessID()
	targetTruck := uuid.New()

	var captured auth.SwitchTruckInput
	svc := stubSwitchService{
		switchFn: func(ctx context.Context, input auth.SwitchTruckInput) (*auth.SwitchTruckResult, error) {
			captured = input
			return &auth.SwitchTruckResult{
				AccessToken:  "switched-access",
				RefreshToken: "switched-refresh",
				Truck:        auth.TruckSummary{ID: input.TruckID, Name: "Seoul Bowl"},
			}, nil
		},
	}
	handler := AuthSwitchTruck(svc, cfg, nil)

	body := `{"truck_id":"` + targetTruck.String() + `","refresh_token":"current-refresh"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/switch-truck", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, jti))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if captured.TruckID != targetTruck || captured.AccessTokenID != jti {
		t.Fatalf("unexpected input: %+v", captured)
	}
	if captured.RefreshToken != "current-refresh" {
		t.Fatalf("expected refresh forwarded, got %q", captured.RefreshToken)
	}
	if got := resp.Header().Get("X-CB-Session"); got != "switched-access" {
		t.Fatalf("expected switched session header, got %q", got)
	}
}

func TestSwitchTruckRejectsNonUUIDTruck(t *testing.T) {
	cfg := testJWTConfig()
	handler := AuthSwitchTruck(stubSwitchService{}, cfg, nil)

	body := `{"truck_id":"not-a-uuid","refresh_token":"current-refresh"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/switch-truck", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, session.NewAccessID()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad truck id got %d", resp.Code)
	}
}

func TestSwitchTruckRequiresValidBearer(t *testing.T) {
	handler := AuthSwitchTruck(stubSwitchService{}, testJWTConfig(), nil)

	body := `{"truck_id":"` + uuid.NewString() + `","refresh_token":"current-refresh"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/switch-truck", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer got %d", resp.Code)
	}
}
