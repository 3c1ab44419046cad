package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/gym/db"
)

// RecordPayment records a collected fee and rolls the member forward onto the
// paid plan: expiry becomes the payment date plus the plan duration, and the
// member's plan/amount snapshots are refreshed.
//
// The two writes are independent statements, like the webhook reconciler's.
// If the member update fails after the payment insert landed, the error is
// surfaced so the operator retries; the duplicate payment row is visible in
// the payment history rather than silently lost.
func (s *serviceImpl) RecordPayment(ctx context.Context, ident auth.Identity, params RecordPaymentParams) (db.Member, error) {
	if params.MemberID == "" {
		return db.Member{}, fmt.Errorf("%w: member_id is required", ErrInvalid)
	}
	if params.PlanID == "" {
		return db.Member{}, fmt.Errorf("%w: plan_id is required", ErrInvalid)
	}

	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return db.Member{}, err
	}
	member, err := s.store.GetMember(ctx, gym.ID, params.MemberID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Member{}, fmt.Errorf("%w: member %s", ErrNotFound, params.MemberID)
	}
	if err != nil {
		return db.Member{}, fmt.Errorf("%w: fetching member: %v", ErrDatabase, err)
	}
	plan, err := s.store.GetPlan(ctx, gym.ID, params.PlanID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Member{}, fmt.Errorf("%w: plan %s", ErrNotFound, params.PlanID)
	}
	if err != nil {
		return db.Member{}, fmt.Errorf("%w: fetching plan: %v", ErrDatabase, err)
	}

	amount := plan.Amount
	if params.Amount != nil {
		if *params.Amount <= 0 {
			return db.Member{}, fmt.Errorf("%w: amount must be positive", ErrInvalid)
		}
		amount = *params.Amount
	}
	paidOn := s.now()
	if params.PaidOn != nil {
		paidOn = *params.PaidOn
	}

	if _, err := s.store.InsertPayment(ctx, db.Payment{
		MemberID: member.ID,
		Amount:   amount,
		PaidOn:   paidOn,
	}); err != nil {
		return db.Member{}, fmt.Errorf("%w: recording payment: %v", ErrDatabase, err)
	}

	expiry := paidOn.Add(membershipTerm(plan.DurationDays))
	if err := s.store.UpdateMemberBilling(ctx, gym.ID, member.ID, plan.Name, amount, expiry); err != nil {
		s.logger.Error("payment recorded but member roll-forward failed",
			zap.String("member_id", member.ID),
			zap.Error(err))
		return db.Member{}, fmt.Errorf("%w: updating member after payment: %v", ErrDatabase, err)
	}

	member.Plan = plan.Name
	member.Amount = amount
	member.ExpiryDate = expiry
	return member, nil
}
