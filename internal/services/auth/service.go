package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edudubai/platform/backend/internal/infra/supabase"
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord) error
	GetSession(ctx context.Context, sid string) (SessionRecord, error)
	DeleteSession(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

// ProviderVerifier resolves an identity-provider access token to the
// provider's user record. The provider itself is an external
// collaborator; only this call contract matters here.
type ProviderVerifier interface {
	VerifyToken(ctx context.Context, accessToken string) (supabase.ProviderUser, error)
}

type Service struct {
	jwt      *JWTManager
	sessions SessionStore
	provider ProviderVerifier
	now      func() time.Time
}

func NewService(jwtManager *JWTManager, sessions SessionStore, provider ProviderVerifier) *Service {
	return &Service{
		jwt:      jwtManager,
		sessions: sessions,
		provider: provider,
		now:      time.Now,
	}
}

// ExchangeProviderToken trades a provider-issued access token for a
// local session and JWT. The provider is the source of truth for who
// the user is; this service only mirrors that into a session.
func (s *Service) ExchangeProviderToken(ctx context.Context, providerToken string) (AuthResult, error) {
	if strings.TrimSpace(providerToken) == "" {
		return AuthResult{}, ErrInvalidInput
	}
	if s.provider == nil || s.sessions == nil || s.jwt == nil {
		return AuthResult{}, fmt.Errorf("auth dependencies are not configured")
	}

	user, err := s.provider.VerifyToken(ctx, providerToken)
	if err != nil {
		if errors.Is(err, supabase.ErrTokenRejected) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("verify provider token: %w", err)
	}

	sid := uuid.NewString()
	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(user.ID, sid, user.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.sessions.Create(ctx, SessionRecord{
		SID:       sid,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: accessExpires,
	}); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		AccessExpires: accessExpires,
		UserID:        user.ID,
		Email:         user.Email,
	}, nil
}

// ValidateAccessToken resolves a bearer token to an identity. Any
// session-store failure yields ErrUnauthorized: an identity outage must
// read as "no user", never as an anonymous pass-through.
func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (AccessClaims, error) {
	if s.jwt == nil || s.sessions == nil {
		return AccessClaims{}, ErrUnauthorized
	}

	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, claims.SID)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}
	if session.UserID != claims.UserID {
		return AccessClaims{}, ErrUnauthorized
	}
	if s.now().After(session.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}

	if claims.Email == "" {
		claims.Email = session.Email
	}
	return claims, nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteSession(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
