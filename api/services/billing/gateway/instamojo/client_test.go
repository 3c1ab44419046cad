package instamojo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gw "github.com/gymdesk/gymdesk-backend/api/services/billing/gateway"
)

func testClient(baseURL string) *Client {
	return &Client{
		http:      resty.New().SetTimeout(5 * time.Second),
		apiKey:    "test-key",
		authToken: "test-token",
		baseURL:   baseURL + "/",
	}
}

func TestCreatePaymentRequest_Success(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payment-requests/", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "test-token", r.Header.Get("X-Auth-Token"))
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "payment_request": {"id": "pr_1", "status": "Pending", "longurl": "https://www.instamojo.com/@gym/pr_1"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	pr, err := c.CreatePaymentRequest(context.Background(), gw.PaymentRequestParams{
		Purpose:     "Subscription: Quarterly",
		Amount:      "999",
		BuyerName:   "Asha Patel",
		Email:       "owner@example.com",
		Phone:       "9999999999",
		RedirectURL: "gymdesk://payment-status",
		WebhookURL:  "https://api.example.com/api/v1/billing/webhook",
	})
	require.NoError(t, err)
	assert.Equal(t, "pr_1", pr.ID)
	assert.Equal(t, "https://www.instamojo.com/@gym/pr_1", pr.LongURL)

	assert.Equal(t, "Subscription: Quarterly", gotForm["purpose"])
	assert.Equal(t, "999", gotForm["amount"])
	assert.Equal(t, "gymdesk://payment-status", gotForm["redirect_url"])
	assert.Equal(t, "https://api.example.com/api/v1/billing/webhook", gotForm["webhook"])
	assert.Equal(t, "False", gotForm["allow_repeated_payments"])
}

func TestCreatePaymentRequest_GatewayRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "message": {"phone": ["Invalid phone number."]}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CreatePaymentRequest(context.Background(), gw.PaymentRequestParams{Amount: "999"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid phone number")
}

func TestCreatePaymentRequest_UnparsableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CreatePaymentRequest(context.Background(), gw.PaymentRequestParams{Amount: "999"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON response")
}

func TestNew_BaseURLSelection(t *testing.T) {
	assert.Equal(t, sandboxBaseURL, New("k", "t", true).baseURL)
	assert.Equal(t, productionBaseURL, New("k", "t", false).baseURL)
}
