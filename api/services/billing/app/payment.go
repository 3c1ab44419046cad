package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/billing/db"
	gw "github.com/gymdesk/gymdesk-backend/api/services/billing/gateway"
)

// CreatePayment issues a payment request against the gateway for the given
// plan and records a pending subscription for the caller. The returned URL is
// the page the buyer opens to pay.
//
// A failure to record the pending subscription is logged but not surfaced:
// the payment link already exists at that point and the buyer's flow must not
// be blocked by local bookkeeping.
func (s *serviceImpl) CreatePayment(ctx context.Context, ident auth.Identity, planID string) (CreatePaymentResponse, error) {
	if ident.UserID == "" {
		return CreatePaymentResponse{}, fmt.Errorf("%w: missing caller identity", auth.ErrUnauthenticated)
	}

	plan, err := s.store.GetPlan(ctx, planID)
	if errors.Is(err, sql.ErrNoRows) {
		return CreatePaymentResponse{}, fmt.Errorf("%w: plan %s", ErrNotFound, planID)
	}
	if err != nil {
		return CreatePaymentResponse{}, fmt.Errorf("%w: fetching plan: %v", ErrDatabase, err)
	}

	buyerName := ident.FullName
	if buyerName == "" {
		buyerName = "Gym Owner"
	}

	pr, err := s.gw.CreatePaymentRequest(ctx, gw.PaymentRequestParams{
		Purpose:     "Subscription: " + plan.Name,
		Amount:      strconv.FormatInt(plan.Price, 10),
		BuyerName:   buyerName,
		Email:       ident.Email,
		Phone:       ident.Phone,
		RedirectURL: paymentRedirectURL,
		WebhookURL:  s.webhookURL,
	})
	if err != nil {
		return CreatePaymentResponse{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	// Provisional end date; overwritten with the real window when the payment
	// credits.
	_, end := entitlementWindow(s.now(), plan.DurationDays)
	_, err = s.store.InsertPendingSubscription(ctx, db.Subscription{
		OwnerID:   ident.UserID,
		PlanID:    plan.ID,
		PaymentID: pr.ID,
		Amount:    plan.Price,
		EndDate:   end,
	})
	if err != nil {
		s.logger.Error("failed to record pending subscription; payment link still issued",
			zap.String("owner_id", ident.UserID),
			zap.String("payment_request_id", pr.ID),
			zap.Error(err))
	}

	return CreatePaymentResponse{PaymentRequest: pr, URL: pr.LongURL}, nil
}
