package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/magicalboonies/safaribook/config"
)

// Client talks to the payment gateway's server API. Transactions are
// initialized here and the buyer completes them on the gateway's hosted
// checkout page; the redirect back carries the transaction reference.
type Client struct {
	secretKey   string
	baseURL     string
	callbackURL string
	currency    string
	httpClient  *http.Client
}

// Transaction is the result of initializing a checkout session.
type Transaction struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifiedTransaction is the gateway's server-held record of a payment.
// Only this, never the client-side callback, proves a payment happened.
type VerifiedTransaction struct {
	Reference   string
	Status      string
	AmountCents int64
	BookingID   string
}

const StatusSuccess = "success"

func NewClient(cfg config.PaystackConfig) *Client {
	return &Client{
		secretKey:   cfg.SecretKey,
		baseURL:     cfg.BaseURL,
		callbackURL: cfg.CallbackURL,
		currency:    cfg.Currency,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type initializeRequest struct {
	Email       string   `json:"email"`
	Amount      int64    `json:"amount"`
	Currency    string   `json:"currency"`
	CallbackURL string   `json:"callback_url,omitempty"`
	Metadata    metadata `json:"metadata"`
}

type metadata struct {
	BookingID string `json:"booking_id"`
}

type initializeResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    Transaction `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string   `json:"reference"`
		Status    string   `json:"status"`
		Amount    int64    `json:"amount"`
		Metadata  metadata `json:"metadata"`
	} `json:"data"`
}

// Initialize opens a checkout session for the booking. Amount is in minor
// currency units.
func (c *Client) Initialize(ctx context.Context, email string, amountCents int64, bookingID string) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0")
	}

	payload, err := json.Marshal(initializeRequest{
		Email:       email,
		Amount:      amountCents,
		Currency:    c.currency,
		CallbackURL: c.callbackURL,
		Metadata:    metadata{BookingID: bookingID},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("initialize transaction: %w", err)
	}
	defer resp.Body.Close()

	var body initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode initialize response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !body.Status {
		return nil, fmt.Errorf("initialize transaction rejected: %s", body.Message)
	}
	return &body.Data, nil
}

// Verify fetches the gateway's record for a transaction reference.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifiedTransaction, error) {
	if reference == "" {
		return nil, fmt.Errorf("payment reference is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify transaction: %w", err)
	}
	defer resp.Body.Close()

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !body.Status {
		return nil, fmt.Errorf("verify transaction rejected: %s", body.Message)
	}

	return &VerifiedTransaction{
		Reference:   body.Data.Reference,
		Status:      body.Data.Status,
		AmountCents: body.Data.Amount,
		BookingID:   body.Data.Metadata.BookingID,
	}, nil
}
