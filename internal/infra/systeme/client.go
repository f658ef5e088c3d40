package systeme

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const DefaultBaseURL = "https://api.systeme.io"

var ErrContactNotFound = errors.New("crm contact not found")

type Config struct {
	BaseURL string
	APIKey  string
}

// Client is a thin wrapper over the Systeme.io public API: contact
// upsert and tag assignment, the two calls enrollment sync needs.
type Client struct {
	cfg  Config
	http *http.Client
}

type Contact struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("systeme.io api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{cfg: cfg, http: httpClient}, nil
}

// UpsertContact creates the contact, or fetches the existing record when
// the provider reports the email is already used.
func (c *Client) UpsertContact(ctx context.Context, emailAddr, firstName string) (Contact, error) {
	if strings.TrimSpace(emailAddr) == "" {
		return Contact{}, fmt.Errorf("contact email is required")
	}
	if firstName == "" {
		firstName = "Learner"
	}

	payload, err := json.Marshal(map[string]any{
		"email": emailAddr,
		"fields": []map[string]string{
			{"slug": "first_name", "value": firstName},
		},
	})
	if err != nil {
		return Contact{}, fmt.Errorf("marshal contact payload: %w", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/contacts", payload)
	if err != nil {
		return Contact{}, err
	}

	if status >= 200 && status <= 299 {
		var contact Contact
		if err := json.Unmarshal(body, &contact); err != nil || contact.ID == 0 {
			return Contact{}, fmt.Errorf("decode created contact: %w", err)
		}
		return contact, nil
	}

	// The provider answers 400 with an "already used" message for
	// existing contacts; fall through to a lookup in that case only.
	if !bytes.Contains(body, []byte("already used")) {
		return Contact{}, fmt.Errorf("crm contact create responded %d", status)
	}
	return c.findContactByEmail(ctx, emailAddr)
}

func (c *Client) findContactByEmail(ctx context.Context, emailAddr string) (Contact, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/contacts?email="+url.QueryEscape(emailAddr), nil)
	if err != nil {
		return Contact{}, err
	}
	if status < 200 || status > 299 {
		return Contact{}, fmt.Errorf("crm contact lookup responded %d", status)
	}

	var list struct {
		Items []Contact `json:"items"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return Contact{}, fmt.Errorf("decode contact list: %w", err)
	}
	if len(list.Items) == 0 {
		return Contact{}, ErrContactNotFound
	}
	return list.Items[0], nil
}

func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("crm tag list responded %d", status)
	}

	var list struct {
		Items []Tag `json:"items"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode tag list: %w", err)
	}
	return list.Items, nil
}

func (c *Client) AssignTag(ctx context.Context, contactID, tagID int64) error {
	if contactID <= 0 || tagID <= 0 {
		return fmt.Errorf("contact id and tag id are required")
	}

	payload, err := json.Marshal(map[string]int64{"tagId": tagID})
	if err != nil {
		return fmt.Errorf("marshal tag payload: %w", err)
	}

	status, _, err := c.do(ctx, http.MethodPost, "/api/contacts/"+strconv.FormatInt(contactID, 10)+"/tags", payload)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("crm tag assignment responded %d", status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build crm request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("crm request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("read crm response: %w", err)
	}
	return resp.StatusCode, data, nil
}
