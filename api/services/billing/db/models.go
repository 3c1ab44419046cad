package db

import "time"

// SubscriptionStatus is the lifecycle state of an owner subscription.
type SubscriptionStatus string

const (
	// StatusPending means a payment request was issued but not yet credited.
	StatusPending SubscriptionStatus = "pending"
	// StatusActive means the payment was credited and the entitlement runs
	// until EndDate.
	StatusActive SubscriptionStatus = "active"
	// StatusFailed is the terminal state for abandoned or failed payments.
	StatusFailed SubscriptionStatus = "failed"
)

// Plan is a row of subscription_plans. Reference data maintained by an
// administrator; the service only reads it.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	DurationDays int      `json:"duration_days"`
	Features     []string `json:"features"`
}

// Subscription is a row of owner_subscriptions. PaymentID stores the gateway
// payment-request id while pending and is replaced with the settled payment id
// on activation.
type Subscription struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	PlanID    string             `json:"plan_id"`
	PaymentID string             `json:"payment_id"`
	Amount    int64              `json:"amount"`
	Status    SubscriptionStatus `json:"status"`
	StartDate *time.Time         `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Plan      Plan               `json:"plan"`
}
