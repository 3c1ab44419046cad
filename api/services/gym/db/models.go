package db

import "time"

// Gym is a row of gyms; one per owner account. Status starts at "pending"
// until the owner is verified.
type Gym struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"gym_name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Status  string `json:"status"`
}

// GymOwner is a row of gym_owners, the account-level record billing approves
// on a credited subscription payment.
type GymOwner struct {
	ID        string `json:"id"`
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
}

// Member is a row of members. Plan and Amount are snapshots of the plan at
// the last payment, kept for display even if the plan row changes later.
type Member struct {
	ID         string    `json:"id"`
	GymID      string    `json:"gym_id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email"`
	Phone      string    `json:"phone"`
	Plan       string    `json:"plan"`
	Amount     int64     `json:"amount"`
	JoinDate   time.Time `json:"join_date"`
	ExpiryDate time.Time `json:"expiry_date"`
	Notes      *string   `json:"notes"`
}

// Plan is a gym-local membership plan (plans table). DurationDays is the
// `duration` column, expressed in days.
type Plan struct {
	ID           string `json:"id"`
	GymID        string `json:"gym_id"`
	Name         string `json:"name"`
	Amount       int64  `json:"amount"`
	DurationDays int    `json:"duration"`
}

// Payment is a row of payments: one collected membership fee.
type Payment struct {
	ID       string    `json:"id"`
	MemberID string    `json:"member_id"`
	Amount   int64     `json:"amount"`
	PaidOn   time.Time `json:"paid_on"`
}

// MonthRevenue is one month's collected revenue, keyed by the first day of
// the month.
type MonthRevenue struct {
	Month  time.Time `json:"month"`
	Amount int64     `json:"amount"`
}

// RenewalStats counts members whose membership expires inside a window and
// how many of them paid again inside that same window.
type RenewalStats struct {
	Expired int `json:"expired"`
	Renewed int `json:"renewed"`
}

// PlanCount is the number of active members on one plan-name snapshot.
type PlanCount struct {
	Plan  string `json:"plan"`
	Count int    `json:"count"`
}

// MemberCounts are the dashboard aggregates over a gym's members.
type MemberCounts struct {
	Total             int `json:"total_members"`
	Active            int `json:"active_members"`
	ExpiringSoon      int `json:"expiring_soon"`
	NewJoinsThisMonth int `json:"new_joins_this_month"`
}
