package gateway

import "context"

// PaymentRequestParams are the fields sent to the payment provider when
// creating a payment request.
type PaymentRequestParams struct {
	Purpose     string
	Amount      string
	BuyerName   string
	Email       string
	Phone       string
	RedirectURL string
	WebhookURL  string
}

// PaymentRequest is the provider's payment-request object. LongURL is the
// page the buyer opens to complete payment.
type PaymentRequest struct {
	ID        string `json:"id"`
	Purpose   string `json:"purpose"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	LongURL   string `json:"longurl"`
	ShortURL  string `json:"shorturl"`
	CreatedAt string `json:"created_at"`
}

// PaymentGateway abstracts the payment provider operations needed by the app
// layer. Methods return values (not pointers) to respect the project's
// preference to avoid pointer types in public interfaces.
type PaymentGateway interface {
	CreatePaymentRequest(ctx context.Context, params PaymentRequestParams) (PaymentRequest, error)
}
