package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/services/billing/gateway/instamojo"
)

// HandleWebhook applies the state transition for an inbound gateway webhook.
//
// A credited payment activates the matching pending subscription and forces
// the owner's account status to approved: row-level security only admits
// approved owners, so a paying owner must be approved or the app stays locked
// for them. Whether payment should bypass manual review is a business rule
// inherited from the billing flow, not something this layer decides.
//
// Replayed credit webhooks recompute the entitlement window from the current
// clock, so a retry after activation extends end_date. Known gap, pinned by
// tests; fixing it is a product decision.
func (s *serviceImpl) HandleWebhook(ctx context.Context, fields map[string]string) (WebhookOutcome, error) {
	// No salt configured means verification is skipped entirely.
	if s.salt != "" && !instamojo.VerifyMAC(fields, s.salt) {
		return OutcomeIgnored, fmt.Errorf("%w: webhook MAC mismatch", ErrInvalidSignature)
	}

	status := fields["status"]
	paymentRequestID := fields["payment_request_id"]
	if status != creditedStatus {
		// Failed or still-pending payment. Acknowledge so the gateway does
		// not retry a legitimately failed payment.
		s.logger.Info("payment not credited; no state change",
			zap.String("status", status),
			zap.String("payment_request_id", paymentRequestID))
		return OutcomeIgnored, nil
	}

	subs, err := s.store.PendingByPaymentRequest(ctx, paymentRequestID)
	if err != nil {
		return OutcomeIgnored, fmt.Errorf("%w: resolving subscription: %v", ErrDatabase, err)
	}
	if len(subs) == 0 {
		return OutcomeIgnored, fmt.Errorf("%w: no pending subscription for payment request %s", ErrNotFound, paymentRequestID)
	}
	if len(subs) > 1 {
		// payment_id must identify at most one pending row. Surface the
		// violation instead of silently picking one.
		return OutcomeIgnored, fmt.Errorf("%w: %d pending subscriptions share payment request %s", ErrConflict, len(subs), paymentRequestID)
	}
	sub := subs[0]

	start, end := entitlementWindow(s.now(), sub.Plan.DurationDays)
	if err := s.store.ActivateSubscription(ctx, sub.ID, fields["payment_id"], start, end); err != nil {
		return OutcomeIgnored, fmt.Errorf("%w: activating subscription: %v", ErrDatabase, err)
	}

	// Second, independent write; not atomic with the activation. Failing here
	// makes the gateway retry the whole webhook, and both writes are safe to
	// repeat.
	if err := s.store.ApproveOwner(ctx, sub.OwnerID); err != nil {
		return OutcomeIgnored, fmt.Errorf("%w: approving owner: %v", ErrDatabase, err)
	}

	s.logger.Info("payment credited; subscription activated",
		zap.String("owner_id", sub.OwnerID),
		zap.String("subscription_id", sub.ID),
		zap.String("payment_id", fields["payment_id"]))
	return OutcomeActivated, nil
}
