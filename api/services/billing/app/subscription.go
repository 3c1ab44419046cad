package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/billing/db"
)

// ListPlans returns the subscription plan catalogue, cheapest first.
func (s *serviceImpl) ListPlans(ctx context.Context) ([]db.Plan, error) {
	plans, err := s.store.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing plans: %v", ErrDatabase, err)
	}
	return plans, nil
}

// CurrentSubscription returns the caller's newest active, unlapsed
// subscription. Expiry is computed on read; there is no expiry job.
func (s *serviceImpl) CurrentSubscription(ctx context.Context, ident auth.Identity) (db.Subscription, error) {
	if ident.UserID == "" {
		return db.Subscription{}, fmt.Errorf("%w: missing caller identity", auth.ErrUnauthenticated)
	}
	sub, err := s.store.CurrentSubscription(ctx, ident.UserID, s.now())
	if errors.Is(err, sql.ErrNoRows) {
		return db.Subscription{}, fmt.Errorf("%w: no active subscription", ErrNotFound)
	}
	if err != nil {
		return db.Subscription{}, fmt.Errorf("%w: fetching subscription: %v", ErrDatabase, err)
	}
	return sub, nil
}
