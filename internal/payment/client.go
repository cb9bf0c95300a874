package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.yookassa.ru/v3"

// Client talks to the YooKassa payments API. Authentication is HTTP basic
// with the shop id and secret key; payment creation carries an
// Idempotence-Key so a retried request never opens a second payment.
type Client struct {
	baseURL    string
	shopID     string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a gateway client.
func NewClient(shopID, secretKey string) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		shopID:    shopID,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithBaseURL points the client at a different endpoint (used by tests).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// Amount is a decimal money value on the wire.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Confirmation carries the redirect the payer must complete.
type Confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

// CreatePaymentRequest is the payment creation body.
type CreatePaymentRequest struct {
	Amount       Amount         `json:"amount"`
	Capture      bool           `json:"capture"`
	Confirmation Confirmation   `json:"confirmation"`
	Description  string         `json:"description,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Payment is the gateway's payment object.
type Payment struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	Amount       Amount         `json:"amount"`
	Confirmation Confirmation   `json:"confirmation"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// CreatePayment opens a new payment and returns it with the confirmation
// URL the client must be redirected to.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(c.shopID, c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotence-Key", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway error: %s - %s", resp.Status, string(raw))
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment fetches the current state of a payment.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(c.shopID, c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway error: %s - %s", resp.Status, string(raw))
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
