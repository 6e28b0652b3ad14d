// Package client provides a Go client for the MonoPay gateway API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is a MonoPay gateway API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// New creates a new gateway client
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ServiceConfig is the merchant configuration resolved from the API key
type ServiceConfig struct {
	ProjectID     string   `json:"projectId"`
	ProjectName   string   `json:"projectName"`
	Network       string   `json:"network"`
	PayoutWallet  string   `json:"payoutWallet"`
	ServiceID     string   `json:"serviceId"`
	AllowedRoutes []string `json:"allowedRoutes"`
	PriceLamports uint64   `json:"priceLamports"`
}

// VerifyResult is the outcome of a successful payment verification
type VerifyResult struct {
	TxSignature  string `json:"txSignature"`
	ServiceID    string `json:"serviceId"`
	PayoutWallet string `json:"payoutWallet"`
	Received     string `json:"received"`
}

// APIError represents an error response from the gateway
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// envelope is the gateway's uniform response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// GetServiceConfig resolves the client's API key to its service config
func (c *Client) GetServiceConfig(ctx context.Context) (*ServiceConfig, error) {
	var cfg ServiceConfig
	if err := c.do(ctx, http.MethodGet, "/service/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// VerifyPayment asks the gateway to verify a payment transaction. The
// payout wallet and price are resolved server-side from the API key.
func (c *Client) VerifyPayment(ctx context.Context, txSignature string) (*VerifyResult, error) {
	body := map[string]string{"txSignature": txSignature}
	var result VerifyResult
	if err := c.do(ctx, http.MethodPost, "/verify", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "malformed response"}
	}

	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}

	if result != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
