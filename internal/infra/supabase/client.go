package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var ErrTokenRejected = errors.New("identity provider rejected the token")

type Config struct {
	BaseURL string
	AnonKey string
}

// Client verifies identity-provider access tokens. The provider itself
// (sign-up, password reset, OAuth) stays external; this is the one call
// the backend needs to map a token to a user.
type Client struct {
	cfg  Config
	http *http.Client
}

type ProviderUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("supabase base url is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{cfg: cfg, http: httpClient}, nil
}

// VerifyToken resolves an access token to the provider's user record.
func (c *Client) VerifyToken(ctx context.Context, accessToken string) (ProviderUser, error) {
	if strings.TrimSpace(accessToken) == "" {
		return ProviderUser{}, ErrTokenRejected
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.cfg.BaseURL, "/")+"/auth/v1/user", nil)
	if err != nil {
		return ProviderUser{}, fmt.Errorf("build verify token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if c.cfg.AnonKey != "" {
		req.Header.Set("apikey", c.cfg.AnonKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ProviderUser{}, fmt.Errorf("verify token request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ProviderUser{}, fmt.Errorf("read verify token response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ProviderUser{}, ErrTokenRejected
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ProviderUser{}, fmt.Errorf("identity provider responded %d", resp.StatusCode)
	}

	var user ProviderUser
	if err := json.Unmarshal(data, &user); err != nil {
		return ProviderUser{}, fmt.Errorf("decode provider user: %w", err)
	}
	if user.ID == "" {
		return ProviderUser{}, ErrTokenRejected
	}
	return user, nil
}
