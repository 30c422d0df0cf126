package flutterwaveControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/shopspring/decimal"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	orderControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/order"
)

// Client talks to the Flutterwave v3 API. The pipeline only consumes the
// two contracts below; retry policy toward the gateway stays out of it.
// The HTTP timeout bounds the single network suspension point in the
// reconciliation path.
type Client struct {
	BaseURL string
	Secret  string
	HTTP    *http.Client
}

func NewClient(cfg config.Payment) *Client {
	return &Client{
		BaseURL: cfg.BaseURL,
		Secret:  os.Getenv("FLW_SECRET_KEY"),
		HTTP:    &http.Client{Timeout: cfg.Timeout},
	}
}

type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phonenumber,omitempty"`
}

type initiateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// InitiatePayment asks the gateway for a hosted payment link for the
// pending transaction. The customer completes payment there; we only
// learn the outcome later, via webhook or redirect.
func (c *Client) InitiatePayment(ctx context.Context, txRef string, amount decimal.Decimal, currency, redirectURL string, cust Customer) (string, error) {
	payload := map[string]interface{}{
		"tx_ref":       txRef,
		"amount":       amount,
		"currency":     currency,
		"redirect_url": redirectURL,
		"customer":     cust,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v3/payments", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.Secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway error (%d): %s", resp.StatusCode, string(body))
	}

	var out initiateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse gateway response: %v", err)
	}
	if out.Status != "success" || out.Data.Link == "" {
		return "", fmt.Errorf("gateway rejected payment: %s", out.Message)
	}

	return out.Data.Link, nil
}

type verifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Status   string          `json:"status"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	} `json:"data"`
}

// Verify fetches the gateway's record of a charge. Any transport or
// decode failure surfaces as an error and is treated by the pipeline as
// a failed verification, never as success.
func (c *Client) Verify(ctx context.Context, externalID string) (orderControllers.VerifyResult, error) {
	url := fmt.Sprintf("%s/v3/transactions/%s/verify", c.BaseURL, externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return orderControllers.VerifyResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return orderControllers.VerifyResult{}, fmt.Errorf("verification request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return orderControllers.VerifyResult{}, fmt.Errorf("verification error (%d): %s", resp.StatusCode, string(body))
	}

	var out verifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return orderControllers.VerifyResult{}, fmt.Errorf("failed to parse verification response: %v", err)
	}
	if out.Status != "success" {
		return orderControllers.VerifyResult{}, fmt.Errorf("verification not successful: %s", out.Status)
	}

	return orderControllers.VerifyResult{
		Status:   out.Data.Status,
		Amount:   out.Data.Amount,
		Currency: out.Data.Currency,
	}, nil
}

var _ orderControllers.Verifier = (*Client)(nil)
