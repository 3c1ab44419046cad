package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres is the billing store backed by the shared Supabase database.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) Postgres {
	return Postgres{db: db}
}

// GetPlan returns one subscription plan. sql.ErrNoRows passes through on a
// lookup miss.
func (p Postgres) GetPlan(ctx context.Context, id string) (Plan, error) {
	var plan Plan
	err := p.db.QueryRowContext(ctx,
		`SELECT id, name, price, duration_days, features
		 FROM subscription_plans WHERE id = $1`, id).
		Scan(&plan.ID, &plan.Name, &plan.Price, &plan.DurationDays, pq.Array(&plan.Features))
	if err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// ListPlans returns the plan catalogue, cheapest first.
func (p Postgres) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, price, duration_days, features
		 FROM subscription_plans ORDER BY price ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var plan Plan
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Price, &plan.DurationDays, pq.Array(&plan.Features)); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// InsertPendingSubscription records a pending subscription and returns its id.
func (p Postgres) InsertPendingSubscription(ctx context.Context, sub Subscription) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO owner_subscriptions (id, owner_id, plan_id, payment_id, amount, status, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, sub.OwnerID, sub.PlanID, sub.PaymentID, sub.Amount, StatusPending, sub.EndDate)
	if err != nil {
		return "", err
	}
	return id, nil
}

// PendingByPaymentRequest returns every pending subscription whose stored
// payment id matches the gateway payment-request id, joined with its plan.
// The invariant is at most one row; callers decide how to treat violations.
func (p Postgres) PendingByPaymentRequest(ctx context.Context, paymentRequestID string) ([]Subscription, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT s.id, s.owner_id, s.plan_id, s.payment_id, s.amount, s.status, s.start_date, s.end_date,
		        p.id, p.name, p.price, p.duration_days, p.features
		 FROM owner_subscriptions s
		 JOIN subscription_plans p ON p.id = s.plan_id
		 WHERE s.payment_id = $1 AND s.status = $2`,
		paymentRequestID, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(
			&sub.ID, &sub.OwnerID, &sub.PlanID, &sub.PaymentID, &sub.Amount, &sub.Status, &sub.StartDate, &sub.EndDate,
			&sub.Plan.ID, &sub.Plan.Name, &sub.Plan.Price, &sub.Plan.DurationDays, pq.Array(&sub.Plan.Features),
		); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// ActivateSubscription applies the credit transition: status active, start and
// end set, stored payment id replaced with the settled payment id.
func (p Postgres) ActivateSubscription(ctx context.Context, id, paymentID string, start, end time.Time) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE owner_subscriptions
		 SET status = $2, start_date = $3, end_date = $4, payment_id = $5
		 WHERE id = $1`,
		id, StatusActive, start, end, paymentID)
	return err
}

// ApproveOwner forces the owner's account status to approved. Idempotent.
func (p Postgres) ApproveOwner(ctx context.Context, ownerID string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE gym_owners SET status = 'approved' WHERE id = $1`, ownerID)
	return err
}

// CurrentSubscription returns the owner's newest active subscription that has
// not lapsed yet. sql.ErrNoRows passes through when there is none.
func (p Postgres) CurrentSubscription(ctx context.Context, ownerID string, now time.Time) (Subscription, error) {
	var sub Subscription
	err := p.db.QueryRowContext(ctx,
		`SELECT s.id, s.owner_id, s.plan_id, s.payment_id, s.amount, s.status, s.start_date, s.end_date,
		        p.id, p.name, p.price, p.duration_days, p.features
		 FROM owner_subscriptions s
		 JOIN subscription_plans p ON p.id = s.plan_id
		 WHERE s.owner_id = $1 AND s.status = $2 AND s.end_date > $3
		 ORDER BY s.end_date DESC
		 LIMIT 1`,
		ownerID, StatusActive, now).
		Scan(
			&sub.ID, &sub.OwnerID, &sub.PlanID, &sub.PaymentID, &sub.Amount, &sub.Status, &sub.StartDate, &sub.EndDate,
			&sub.Plan.ID, &sub.Plan.Name, &sub.Plan.Price, &sub.Plan.DurationDays, pq.Array(&sub.Plan.Features),
		)
	if err != nil {
		return Subscription{}, err
	}
	return sub, nil
}
