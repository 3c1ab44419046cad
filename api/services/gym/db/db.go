package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Postgres is the gym store backed by the shared Supabase database.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) Postgres {
	return Postgres{db: db}
}

// GymByOwner returns the owner's gym. sql.ErrNoRows passes through when the
// owner has not finished onboarding.
func (p Postgres) GymByOwner(ctx context.Context, ownerID string) (Gym, error) {
	var gym Gym
	err := p.db.QueryRowContext(ctx,
		`SELECT id, owner_id, gym_name, address, city, pincode, status
		 FROM gyms WHERE owner_id = $1`, ownerID).
		Scan(&gym.ID, &gym.OwnerID, &gym.Name, &gym.Address, &gym.City, &gym.Pincode, &gym.Status)
	if err != nil {
		return Gym{}, err
	}
	return gym, nil
}

// InsertOwner creates the gym_owners row. The id is the owner's auth user id,
// not a generated one, so billing can approve it by user id later.
func (p Postgres) InsertOwner(ctx context.Context, owner GymOwner) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO gym_owners (id, owner_name, phone, status) VALUES ($1, $2, $3, $4)`,
		owner.ID, owner.OwnerName, owner.Phone, owner.Status)
	return err
}

// InsertGym creates the gym row and returns its id.
func (p Postgres) InsertGym(ctx context.Context, gym Gym) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO gyms (id, owner_id, gym_name, address, city, pincode, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, gym.OwnerID, gym.Name, gym.Address, gym.City, gym.Pincode, gym.Status)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListMembers returns all members of a gym ordered by name.
func (p Postgres) ListMembers(ctx context.Context, gymID string) ([]Member, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, gym_id, name, email, phone, plan, amount, join_date, expiry_date, notes
		 FROM members WHERE gym_id = $1 ORDER BY name ASC`, gymID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

// GetMember returns one member scoped to a gym, so an owner can never read
// another gym's member by guessing ids.
func (p Postgres) GetMember(ctx context.Context, gymID, id string) (Member, error) {
	var m Member
	err := p.db.QueryRowContext(ctx,
		`SELECT id, gym_id, name, email, phone, plan, amount, join_date, expiry_date, notes
		 FROM members WHERE gym_id = $1 AND id = $2`, gymID, id).
		Scan(&m.ID, &m.GymID, &m.Name, &m.Email, &m.Phone, &m.Plan, &m.Amount, &m.JoinDate, &m.ExpiryDate, &m.Notes)
	if err != nil {
		return Member{}, err
	}
	return m, nil
}

// InsertMember creates a member and returns its id.
func (p Postgres) InsertMember(ctx context.Context, m Member) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO members (id, gym_id, name, email, phone, plan, amount, join_date, expiry_date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, m.GymID, m.Name, m.Email, m.Phone, m.Plan, m.Amount, m.JoinDate, m.ExpiryDate, m.Notes)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateMemberContact updates the editable contact fields of a member.
func (p Postgres) UpdateMemberContact(ctx context.Context, gymID, id, name string, email *string, phone string, notes *string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE members SET name = $3, email = $4, phone = $5, notes = $6
		 WHERE gym_id = $1 AND id = $2`,
		gymID, id, name, email, phone, notes)
	return err
}

// UpdateMemberBilling rolls a member forward after a payment: plan name and
// amount snapshots plus the new expiry date.
func (p Postgres) UpdateMemberBilling(ctx context.Context, gymID, id, plan string, amount int64, expiry time.Time) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE members SET plan = $3, amount = $4, expiry_date = $5
		 WHERE gym_id = $1 AND id = $2`,
		gymID, id, plan, amount, expiry)
	return err
}

// DeleteMember removes a member of a gym.
func (p Postgres) DeleteMember(ctx context.Context, gymID, id string) error {
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM members WHERE gym_id = $1 AND id = $2`, gymID, id)
	return err
}

// ListPlans returns a gym's plans in creation order.
func (p Postgres) ListPlans(ctx context.Context, gymID string) ([]Plan, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, gym_id, name, amount, duration
		 FROM plans WHERE gym_id = $1 ORDER BY created_at ASC`, gymID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var plan Plan
		if err := rows.Scan(&plan.ID, &plan.GymID, &plan.Name, &plan.Amount, &plan.DurationDays); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// GetPlan returns one gym plan. sql.ErrNoRows passes through on a miss.
func (p Postgres) GetPlan(ctx context.Context, gymID, id string) (Plan, error) {
	var plan Plan
	err := p.db.QueryRowContext(ctx,
		`SELECT id, gym_id, name, amount, duration
		 FROM plans WHERE gym_id = $1 AND id = $2`, gymID, id).
		Scan(&plan.ID, &plan.GymID, &plan.Name, &plan.Amount, &plan.DurationDays)
	if err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// InsertPlan creates a gym plan and returns its id.
func (p Postgres) InsertPlan(ctx context.Context, plan Plan) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO plans (id, gym_id, name, amount, duration) VALUES ($1, $2, $3, $4, $5)`,
		id, plan.GymID, plan.Name, plan.Amount, plan.DurationDays)
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeletePlan removes a gym plan.
func (p Postgres) DeletePlan(ctx context.Context, gymID, id string) error {
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM plans WHERE gym_id = $1 AND id = $2`, gymID, id)
	return err
}

// InsertPayment records a collected fee.
func (p Postgres) InsertPayment(ctx context.Context, payment Payment) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO payments (id, member_id, amount, paid_on) VALUES ($1, $2, $3, $4)`,
		id, payment.MemberID, payment.Amount, payment.PaidOn)
	if err != nil {
		return "", err
	}
	return id, nil
}

// MemberCounts aggregates the dashboard numbers in one pass.
func (p Postgres) MemberCounts(ctx context.Context, gymID string, today, sevenDaysLater, monthStart time.Time) (MemberCounts, error) {
	var counts MemberCounts
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE expiry_date >= $2),
		        COUNT(*) FILTER (WHERE expiry_date >= $2 AND expiry_date <= $3),
		        COUNT(*) FILTER (WHERE join_date >= $4)
		 FROM members WHERE gym_id = $1`,
		gymID, today, sevenDaysLater, monthStart).
		Scan(&counts.Total, &counts.Active, &counts.ExpiringSoon, &counts.NewJoinsThisMonth)
	if err != nil {
		return MemberCounts{}, err
	}
	return counts, nil
}

// ExpiringMembers returns up to limit members whose expiry falls inside the
// window, soonest first.
func (p Postgres) ExpiringMembers(ctx context.Context, gymID string, from, to time.Time, limit int) ([]Member, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, gym_id, name, email, phone, plan, amount, join_date, expiry_date, notes
		 FROM members
		 WHERE gym_id = $1 AND expiry_date >= $2 AND expiry_date <= $3
		 ORDER BY expiry_date ASC
		 LIMIT $4`,
		gymID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

// RevenueBetween sums payments collected for a gym's members inside
// [from, to).
func (p Postgres) RevenueBetween(ctx context.Context, gymID string, from, to time.Time) (int64, error) {
	var total int64
	err := p.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(p.amount), 0)
		 FROM payments p JOIN members m ON m.id = p.member_id
		 WHERE m.gym_id = $1 AND p.paid_on >= $2 AND p.paid_on < $3`,
		gymID, from, to).Scan(&total)
	return total, err
}

// TotalRevenue sums every payment ever collected for a gym's members.
func (p Postgres) TotalRevenue(ctx context.Context, gymID string) (int64, error) {
	var total int64
	err := p.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(p.amount), 0)
		 FROM payments p JOIN members m ON m.id = p.member_id
		 WHERE m.gym_id = $1`, gymID).Scan(&total)
	return total, err
}

// RenewalStats counts members whose expiry falls inside [from, to) and how
// many of those also paid inside the same window.
func (p Postgres) RenewalStats(ctx context.Context, gymID string, from, to time.Time) (RenewalStats, error) {
	var stats RenewalStats
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE EXISTS (
		            SELECT 1 FROM payments p
		            WHERE p.member_id = m.id AND p.paid_on >= $2 AND p.paid_on < $3))
		 FROM members m
		 WHERE m.gym_id = $1 AND m.expiry_date >= $2 AND m.expiry_date < $3`,
		gymID, from, to).Scan(&stats.Expired, &stats.Renewed)
	if err != nil {
		return RenewalStats{}, err
	}
	return stats, nil
}

// MonthlyRevenue buckets a gym's payments inside [from, to) by calendar
// month. Months with no payments produce no row.
func (p Postgres) MonthlyRevenue(ctx context.Context, gymID string, from, to time.Time) ([]MonthRevenue, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT date_trunc('month', p.paid_on) AS month, COALESCE(SUM(p.amount), 0)
		 FROM payments p JOIN members m ON m.id = p.member_id
		 WHERE m.gym_id = $1 AND p.paid_on >= $2 AND p.paid_on < $3
		 GROUP BY month ORDER BY month ASC`,
		gymID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []MonthRevenue
	for rows.Next() {
		var mr MonthRevenue
		if err := rows.Scan(&mr.Month, &mr.Amount); err != nil {
			return nil, err
		}
		months = append(months, mr)
	}
	return months, rows.Err()
}

// PlanDistribution counts unexpired members per plan-name snapshot.
func (p Postgres) PlanDistribution(ctx context.Context, gymID string, now time.Time) ([]PlanCount, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT plan, COUNT(*)
		 FROM members
		 WHERE gym_id = $1 AND expiry_date >= $2 AND plan <> ''
		 GROUP BY plan ORDER BY COUNT(*) DESC, plan ASC`,
		gymID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []PlanCount
	for rows.Next() {
		var pc PlanCount
		if err := rows.Scan(&pc.Plan, &pc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}

func scanMembers(rows *sql.Rows) ([]Member, error) {
	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.GymID, &m.Name, &m.Email, &m.Phone, &m.Plan, &m.Amount, &m.JoinDate, &m.ExpiryDate, &m.Notes); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
