package app

import gw "github.com/gymdesk/gymdesk-backend/api/services/billing/gateway"

// WebhookOutcome describes what a handled webhook did.
type WebhookOutcome string

const (
	// OutcomeActivated means a pending subscription was activated.
	OutcomeActivated WebhookOutcome = "activated"
	// OutcomeIgnored means the webhook was acknowledged without any writes
	// (failed or still-pending payment).
	OutcomeIgnored WebhookOutcome = "ignored"
)

// paymentRedirectURL is the deep link Instamojo sends the buyer back to.
const paymentRedirectURL = "gymdesk://payment-status"

// creditedStatus is Instamojo's sentinel for a successfully captured payment.
const creditedStatus = "Credit"

// CreatePaymentResponse is the domain response returned by the app layer.
// The HTTP layer translates this into JSON.
type CreatePaymentResponse struct {
	PaymentRequest gw.PaymentRequest `json:"payment_request"`
	URL            string            `json:"url"`
}
