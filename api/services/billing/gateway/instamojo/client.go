package instamojo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	gw "github.com/gymdesk/gymdesk-backend/api/services/billing/gateway"
)

const (
	sandboxBaseURL    = "https://test.instamojo.com/api/1.1/"
	productionBaseURL = "https://www.instamojo.com/api/1.1/"
)

// Client calls the Instamojo 1.1 API. It implements gateway.PaymentGateway.
type Client struct {
	http      *resty.Client
	apiKey    string
	authToken string
	baseURL   string
}

// New returns a Client pointed at the sandbox or production API.
func New(apiKey, authToken string, sandbox bool) *Client {
	baseURL := productionBaseURL
	if sandbox {
		baseURL = sandboxBaseURL
	}
	return &Client{
		http:      resty.New().SetTimeout(30 * time.Second),
		apiKey:    apiKey,
		authToken: authToken,
		baseURL:   baseURL,
	}
}

// createResponse is the envelope Instamojo wraps payment-request replies in.
type createResponse struct {
	Success        bool              `json:"success"`
	Message        json.RawMessage   `json:"message"`
	PaymentRequest gw.PaymentRequest `json:"payment_request"`
}

// CreatePaymentRequest creates a payment request and returns the provider's
// payment-request object, including the redirect URL for the buyer.
func (c *Client) CreatePaymentRequest(ctx context.Context, params gw.PaymentRequestParams) (gw.PaymentRequest, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", c.apiKey).
		SetHeader("X-Auth-Token", c.authToken).
		SetFormData(map[string]string{
			"purpose":                 params.Purpose,
			"amount":                  params.Amount,
			"buyer_name":              params.BuyerName,
			"email":                   params.Email,
			"phone":                   params.Phone,
			"redirect_url":            params.RedirectURL,
			"webhook":                 params.WebhookURL,
			"allow_repeated_payments": "False",
		}).
		Post(c.baseURL + "payment-requests/")
	if err != nil {
		return gw.PaymentRequest{}, fmt.Errorf("instamojo request failed: %w", err)
	}

	var envelope createResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return gw.PaymentRequest{}, fmt.Errorf("invalid JSON response from Instamojo: %s", resp.String())
	}
	if !envelope.Success {
		return gw.PaymentRequest{}, fmt.Errorf("instamojo rejected payment request: %s", string(envelope.Message))
	}
	return envelope.PaymentRequest, nil
}
