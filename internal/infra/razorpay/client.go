package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DefaultBaseURL = "https://api.razorpay.com"

var ErrOrderNotFound = errors.New("razorpay order not found")

type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
}

// Client talks to the Razorpay Orders REST API. Only the two calls the
// checkout flow needs are implemented.
type Client struct {
	cfg  Config
	http *http.Client
}

// Order is the provider's authoritative view of a charge. Amount is in
// minor units (cents for USD).
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type CreateOrderInput struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.KeySecret) == "" {
		return nil, fmt.Errorf("razorpay credentials are not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{cfg: cfg, http: httpClient}, nil
}

// FetchOrder looks up an order by id. The returned amount is the source
// of truth for how much was actually charged.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return Order{}, fmt.Errorf("order id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/v1/orders/"+orderID, nil)
	if err != nil {
		return Order{}, fmt.Errorf("build fetch order request: %w", err)
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	var order Order
	if err := c.do(req, &order); err != nil {
		return Order{}, err
	}
	if order.ID == "" || order.Amount <= 0 {
		return Order{}, fmt.Errorf("unexpected order response shape for %s", orderID)
	}
	return order, nil
}

func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (Order, error) {
	if in.Amount <= 0 {
		return Order{}, fmt.Errorf("order amount must be positive")
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}

	body, err := json.Marshal(in)
	if err != nil {
		return Order{}, fmt.Errorf("marshal create order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return Order{}, fmt.Errorf("build create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	var order Order
	if err := c.do(req, &order); err != nil {
		return Order{}, err
	}
	if order.ID == "" {
		return Order{}, fmt.Errorf("create order response missing id")
	}
	return order, nil
}

func (c *Client) KeyID() string {
	return c.cfg.KeyID
}

func (c *Client) do(req *http.Request, target any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("razorpay request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read razorpay response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrOrderNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("razorpay responded %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode razorpay response: %w", err)
	}
	return nil
}
