package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DefaultBaseURL = "https://api.resend.com"

type Config struct {
	BaseURL string
	APIKey  string
	From    string
}

// ResendClient sends transactional email through the Resend REST API.
type ResendClient struct {
	cfg  Config
	http *http.Client
}

type Message struct {
	To      string
	Subject string
	HTML    string
}

func NewResendClient(cfg Config, httpClient *http.Client) (*ResendClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.From == "" {
		cfg.From = "EduDubai <notifications@edudubai.org>"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ResendClient{cfg: cfg, http: httpClient}, nil
}

func (c *ResendClient) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is required")
	}

	payload, err := json.Marshal(map[string]any{
		"from":    c.cfg.From,
		"to":      []string{msg.To},
		"subject": msg.Subject,
		"html":    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build send email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("email provider responded %d", resp.StatusCode)
	}
	return nil
}
