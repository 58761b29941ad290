package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shiftline/shiftline-backend/internal/auth"
	pkgAuth "github.com/shiftline/shiftline-backend/pkg/auth"
	"github.com/shiftline/shiftline-backend/pkg/config"
	"github.com/shiftline/shiftline-backend/pkg/enums"
	pkgerrors "github.com/shiftline/shiftline-backend/pkg/errors"
)

type stubAuthService struct {
	login     *auth.LoginResponse
	refresh   *auth.RefreshResponse
	err       error
	loggedOut []string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return s.refresh, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return s.err
}

func TestAuthLoginSuccess(t *testing.T) {
	handler := AuthLogin(&stubAuthService{login: &auth.LoginResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
	}}, nil)

	payload := []byte(`{"username": "alice", "password": "password123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(payload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access" {
		t.Fatalf("unexpected token %q", envelope.Data.AccessToken)
	}
}

func TestAuthLoginMissingFields(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"username": "alice"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	handler := AuthLogin(&stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)

	payload := []byte(`{"username": "alice", "password": "wrong-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(payload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLogoutRevokesTokenSession(t *testing.T) {
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "shiftline", ExpirationMinutes: 30}
	accessID := "session-1"
	token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "alice",
		Role:     enums.RoleStaff,
		JTI:      accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	svc := &stubAuthService{}
	handler := AuthLogout(svc, jwtCfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != accessID {
		t.Fatalf("expected logout for %q, got %v", accessID, svc.loggedOut)
	}
}

func TestAuthLogoutMissingToken(t *testing.T) {
	handler := AuthLogout(&stubAuthService{}, config.JWTConfig{Secret: "secret", Issuer: "shiftline", ExpirationMinutes: 30}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRefreshRejectsInvalidSession(t *testing.T) {
	handler := AuthRefresh(&stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")}, nil)

	payload := []byte(`{"access_token": "stale", "refresh_token": "bogus"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBuffer(payload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
