package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/internal/auth"
	pkgAuth "github.com/curbsidehq/curbside-backend/pkg/auth"
	"github.com/curbsidehq/curbside-backend/pkg/auth/session"
	"github.com/curbsidehq/curbside-backend/pkg/config"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

type stubAuthService struct {
	login   func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	refresh func(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (*auth.RefreshResponse, error)
	logout  func(ctx context.Context, accessID string) error
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.login != nil {
		return s.login(ctx, req)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s stubAuthService) Refresh(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (*auth.RefreshResponse, error) {
	if s.refresh != nil {
		return s.refresh(ctx, claims, refreshToken)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s stubAuthService) Logout(ctx context.Context, accessID string) error {
	if s.logout != nil {
		return s.logout(ctx, accessID)
	}
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "secret",
		Issuer:                 "issuer",
		ExpirationMinutes:      60,
		RefreshTokenTTLMinutes: 120,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, jti string) string {
	t.Helper()
	truckID := uuid.New()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:        uuid.New(),
		ActiveTruckID: &truckID,
		Role:          enums.MemberRoleOwner,
		JTI:           jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthLoginSetsSessionHeader(t *testing.T) {
	t.Parallel()

	svc := stubAuthService{
		login: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			if req.Email != "owner@elfuego.com" {
				t.Fatalf("unexpected email %q", req.Email)
			}
			return &auth.LoginResponse{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				Trucks:       []auth.TruckSummary{{ID: uuid.New(), Name: "El Fuego", Slug: "el-fuego"}},
			}, nil
		},
	}
	handler := AuthLogin(svc, nil)

	body := `{"email":"owner@elfuego.com","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("X-CB-Session"); got != "access-token" {
		t.Fatalf("expected session header, got %q", got)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Trucks) != 1 || envelope.Data.Trucks[0].Slug != "el-fuego" {
		t.Fatalf("unexpected trucks: %+v", envelope.Data.Trucks)
	}
}

func TestAuthLoginRejectsBadCredentialsShape(t *testing.T) {
	handler := AuthLogin(stubAuthService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthRefreshForwardsClaims(t *testing.T) {
	cfg := testJWTConfig()
	jti := session.NewAccessID()

	var gotJTI, gotRefresh string
	svc := stubAuthService{
		refresh: func(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (*auth.RefreshResponse, error) {
			gotJTI = claims.ID
			gotRefresh = refreshToken
			return &auth.RefreshResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}
	handler := AuthRefresh(svc, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, jti))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if gotJTI != jti {
		t.Fatalf("expected jti %q got %q", jti, gotJTI)
	}
	if gotRefresh != "old-refresh" {
		t.Fatalf("expected refresh token forwarded, got %q", gotRefresh)
	}
	if got := resp.Header().Get("X-CB-Session"); got != "new-access" {
		t.Fatalf("expected rotated session header, got %q", got)
	}
}

func TestAuthRefreshRejectsMissingBearer(t *testing.T) {
	handler := AuthRefresh(stubAuthService{}, testJWTConfig(), nil)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer got %d", resp.Code)
	}
}

func TestAuthRefreshRejectsForgedToken(t *testing.T) {
	cfg := testJWTConfig()
	forged := config.JWTConfig{Secret: "other-secret", Issuer: cfg.Issuer, ExpirationMinutes: 60}
	handler := AuthRefresh(stubAuthService{}, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintToken(t, forged, session.NewAccessID()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token got %d", resp.Code)
	}
}

func TestAuthLogoutRevokesByAccessID(t *testing.T) {
	cfg := testJWTConfig()
	jti := session.NewAccessID()

	var revoked string
	svc := stubAuthService{
		logout: func(ctx context.Context, accessID string) error {
			revoked = accessID
			return nil
		},
	}
	handler := AuthLogout(svc, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, jti))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if revoked != jti {
		t.Fatalf("expected revoke for %q got %q", jti, revoked)
	}
}
