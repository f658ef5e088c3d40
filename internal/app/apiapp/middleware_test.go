package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edudubai/platform/backend/internal/infra/supabase"
	authsvc "github.com/edudubai/platform/backend/internal/services/auth"
)

type sessionStoreStub struct {
	sessions map[string]authsvc.SessionRecord
}

func (s *sessionStoreStub) Create(_ context.Context, session authsvc.SessionRecord) error {
	s.sessions[session.SID] = session
	return nil
}

func (s *sessionStoreStub) GetSession(_ context.Context, sid string) (authsvc.SessionRecord, error) {
	session, ok := s.sessions[sid]
	if !ok {
		return authsvc.SessionRecord{}, authsvc.ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStoreStub) DeleteSession(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	return nil
}

func (s *sessionStoreStub) DeleteAllForUser(_ context.Context, _ string) error { return nil }

type providerStub struct{}

func (providerStub) VerifyToken(_ context.Context, _ string) (supabase.ProviderUser, error) {
	return supabase.ProviderUser{ID: "user-1", Email: "learner@example.com"}, nil
}

func newAuthFixture(t *testing.T) (*authsvc.Service, string) {
	t.Helper()

	store := &sessionStoreStub{sessions: map[string]authsvc.SessionRecord{}}
	jwtManager := authsvc.NewJWTManager("middleware-test-secret", time.Hour)
	svc := authsvc.NewService(jwtManager, store, providerStub{})

	res, err := svc.ExchangeProviderToken(context.Background(), "provider-token")
	if err != nil {
		t.Fatalf("exchange provider token: %v", err)
	}
	return svc, res.AccessToken
}

func identityEcho(t *testing.T) (http.Handler, *authsvc.Identity) {
	t.Helper()

	captured := &authsvc.Identity{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
			*captured = identity
		}
		w.WriteHeader(http.StatusNoContent)
	}), captured
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	next, _ := identityEcho(t)
	handler := AuthMiddleware(svc, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	svc, token := newAuthFixture(t)
	next, captured := identityEcho(t)
	handler := AuthMiddleware(svc, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if captured.UserID != "user-1" || captured.Email != "learner@example.com" {
		t.Fatalf("identity = %+v", captured)
	}
}

func TestOptionalAuthPassesAnonymousThrough(t *testing.T) {
	svc, _ := newAuthFixture(t)
	next, captured := identityEcho(t)
	handler := OptionalAuthMiddleware(svc)(next)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/verify", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("anonymous request must reach the handler, status = %d", rec.Code)
	}
	if captured.UserID != "" {
		t.Fatalf("no identity expected, got %+v", captured)
	}
}

func TestOptionalAuthIgnoresGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	next, captured := identityEcho(t)
	handler := OptionalAuthMiddleware(svc)(next)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/verify", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("garbage token must not block the request, status = %d", rec.Code)
	}
	if captured.UserID != "" {
		t.Fatalf("no identity expected, got %+v", captured)
	}
}

func TestOptionalAuthAttachesIdentity(t *testing.T) {
	svc, token := newAuthFixture(t)
	next, captured := identityEcho(t)
	handler := OptionalAuthMiddleware(svc)(next)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if captured.UserID != "user-1" {
		t.Fatalf("identity = %+v", captured)
	}
}
