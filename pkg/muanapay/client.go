// Package muanapay is a small client for the SMS ingestion and payment
// verification endpoints.
package muanapay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	filterSmsPath         = "/functions/v1/filter-sms"
	verifyTransactionPath = "/functions/v1/verify-transaction"
)

var (
	ErrMissingConfig       = errors.New("base url and api key are required")
	ErrMissingSmsFields    = errors.New("sender and message are required")
	ErrMissingVerifyFields = errors.New("user id and payment reference are required")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed: %d %s", e.Endpoint, e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 15s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" || apiKey == "" {
		return nil, ErrMissingConfig
	}

	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type SendSmsInput struct {
	Sender  string
	Message string
	// Timestamp is sent as RFC 3339 in UTC when set.
	Timestamp *time.Time
}

type SmsRecord struct {
	ID                 string    `json:"id"`
	Sender             string    `json:"sender"`
	Message            string    `json:"message"`
	Timestamp          time.Time `json:"timestamp"`
	PaymentReference   *string   `json:"payment_reference"`
	AmountCents        *int64    `json:"amount_cents"`
	Currency           string    `json:"currency"`
	CounterpartyNumber *string   `json:"counterparty_number"`
	Provider           *string   `json:"provider"`
	ParsedConfidence   float64   `json:"parsed_confidence"`
}

type SendSmsResult struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Data      *SmsRecord `json:"data"`
	Filtered  bool       `json:"filtered"`
	Duplicate bool       `json:"duplicate"`
}

func (c *Client) SendSms(ctx context.Context, in SendSmsInput) (*SendSmsResult, error) {
	if strings.TrimSpace(in.Sender) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, ErrMissingSmsFields
	}

	body := map[string]any{
		"sender":  in.Sender,
		"message": in.Message,
	}
	if in.Timestamp != nil {
		body["timestamp"] = in.Timestamp.UTC().Format(time.RFC3339Nano)
	}

	var out SendSmsResult
	if err := c.post(ctx, filterSmsPath, "filter-sms", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type VerifyTransactionInput struct {
	UserID           string
	PaymentReference string
	PlanID           string
	PlanName         string
	AmountCents      *int64
}

type SubscriptionPlan struct {
	Name                string `json:"name"`
	SyncIntervalSeconds int32  `json:"sync_interval_seconds"`
	MaxEndpoints        int32  `json:"max_endpoints"`
}

type Subscription struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	PlanID    string            `json:"plan_id"`
	Status    string            `json:"status"`
	StartsAt  time.Time         `json:"starts_at"`
	ExpiresAt time.Time         `json:"expires_at"`
	AutoRenew bool              `json:"auto_renew"`
	Plan      *SubscriptionPlan `json:"plans"`
}

type VerifyTransactionResult struct {
	Status       string        `json:"status"`
	Subscription *Subscription `json:"subscription"`
}

func (r *VerifyTransactionResult) Verified() bool {
	return r.Status == "verified"
}

func (c *Client) VerifyTransaction(ctx context.Context, in VerifyTransactionInput) (*VerifyTransactionResult, error) {
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.PaymentReference) == "" {
		return nil, ErrMissingVerifyFields
	}

	body := map[string]any{
		"user_id":           in.UserID,
		"payment_reference": in.PaymentReference,
	}
	if in.PlanID != "" {
		body["plan_id"] = in.PlanID
	}
	if in.PlanName != "" {
		body["plan_name"] = in.PlanName
	}
	if in.AmountCents != nil {
		body["amount_cents"] = *in.AmountCents
	}

	var out VerifyTransactionResult
	if err := c.post(ctx, verifyTransactionPath, "verify-transaction", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
