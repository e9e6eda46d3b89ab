package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stayhub/config"
)

// PaystackClient talks to the Paystack REST API. BaseURL is a field so
// tests can point it at a local server.
type PaystackClient struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

func NewPaystackClient() *PaystackClient {
	return &PaystackClient{
		SecretKey:  config.Cfg.PaystackSecretKey,
		BaseURL:    config.Cfg.PaystackBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type initializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// InitializeResult is the subset of the initialize response we use.
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// VerifyResult is the subset of the verify response we use.
type VerifyResult struct {
	Status    string                 `json:"status"`
	Reference string                 `json:"reference"`
	Amount    int64                  `json:"amount"`
	PaidAt    string                 `json:"paid_at"`
	Channel   string                 `json:"channel"`
	Currency  string                 `json:"currency"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// ToKobo converts a naira amount to Paystack's integer kobo unit.
func ToKobo(naira float64) int64 {
	return int64(naira * 100)
}

// InitializeTransaction creates a pending transaction and returns the
// checkout URL the student is redirected to.
func (c *PaystackClient) InitializeTransaction(ctx context.Context, email string, amountNaira float64, reference string) (*InitializeResult, error) {
	body, err := json.Marshal(initializeRequest{
		Email:       email,
		Amount:      ToKobo(amountNaira),
		Reference:   reference,
		CallbackURL: config.Cfg.PaystackCallbackURL,
	})
	if err != nil {
		return nil, err
	}

	var result InitializeResult
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyTransaction asks Paystack for the final state of a reference.
func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	var result VerifyResult
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *PaystackClient) do(ctx context.Context, method, path string, body *bytes.Reader, out interface{}) error {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	}
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("paystack: decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !envelope.Status {
		return fmt.Errorf("paystack: %s (http %d)", envelope.Message, resp.StatusCode)
	}
	return json.Unmarshal(envelope.Data, out)
}
