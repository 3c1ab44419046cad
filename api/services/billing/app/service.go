package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/billing/db"
	gw "github.com/gymdesk/gymdesk-backend/api/services/billing/gateway"
)

// Store is the persistence surface the billing service needs. Implemented by
// db.Postgres; tests substitute a fake.
type Store interface {
	GetPlan(ctx context.Context, id string) (db.Plan, error)
	ListPlans(ctx context.Context) ([]db.Plan, error)
	InsertPendingSubscription(ctx context.Context, sub db.Subscription) (string, error)
	PendingByPaymentRequest(ctx context.Context, paymentRequestID string) ([]db.Subscription, error)
	ActivateSubscription(ctx context.Context, id, paymentID string, start, end time.Time) error
	ApproveOwner(ctx context.Context, ownerID string) error
	CurrentSubscription(ctx context.Context, ownerID string, now time.Time) (db.Subscription, error)
}

// Service defines the business operations for the billing domain.
type Service interface {
	CreatePayment(ctx context.Context, ident auth.Identity, planID string) (CreatePaymentResponse, error)
	HandleWebhook(ctx context.Context, fields map[string]string) (WebhookOutcome, error)
	ListPlans(ctx context.Context) ([]db.Plan, error)
	CurrentSubscription(ctx context.Context, ident auth.Identity) (db.Subscription, error)
}

type serviceImpl struct {
	logger     *zap.Logger
	gw         gw.PaymentGateway
	store      Store
	salt       string
	webhookURL string
	now        func() time.Time
}

// NewService wires the billing service. salt may be empty, in which case
// webhook MAC verification is skipped (accepting unsigned webhooks is an
// explicit operator choice for development environments).
func NewService(logger *zap.Logger, g gw.PaymentGateway, store Store, salt, webhookURL string) Service {
	return &serviceImpl{
		logger:     logger.Named("billing"),
		gw:         g,
		store:      store,
		salt:       salt,
		webhookURL: webhookURL,
		now:        time.Now,
	}
}

// entitlementWindow converts a plan duration to wall-clock start/end times.
// Days are added as 24h durations, matching how the entitlement was originally
// computed, not as calendar days.
func entitlementWindow(start time.Time, durationDays int) (time.Time, time.Time) {
	return start, start.Add(time.Duration(durationDays) * 24 * time.Hour)
}
