package app

import (
	"time"

	"github.com/gymdesk/gymdesk-backend/api/services/gym/db"
)

// MemberFilter narrows a member listing. Status is derived from expiry_date:
// active (not yet expired), expiring (within the next 7 days), expired.
type MemberFilter struct {
	Search string
	Status string
}

const (
	StatusActive   = "active"
	StatusExpiring = "expiring"
	StatusExpired  = "expired"
)

// expiringWindow is how far ahead "expiring soon" looks.
const expiringWindow = 7 * 24 * time.Hour

// Statuses written by onboarding. The owner stays pending_verification until
// a credited subscription payment approves it.
const (
	ownerInitialStatus = "pending_verification"
	gymInitialStatus   = "pending"
)

type RegisterGymParams struct {
	GymName   string `json:"gym_name"`
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
}

type AddMemberParams struct {
	Name     string     `json:"name"`
	Email    *string    `json:"email"`
	Phone    string     `json:"phone"`
	PlanID   string     `json:"plan_id"`
	JoinDate *time.Time `json:"join_date"`
	Notes    *string    `json:"notes"`
}

type UpdateMemberParams struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone string  `json:"phone"`
	Notes *string `json:"notes"`
}

type AddPlanParams struct {
	Name         string `json:"name"`
	Amount       int64  `json:"amount"`
	DurationDays int    `json:"duration"`
}

type RecordPaymentParams struct {
	MemberID string     `json:"member_id"`
	PlanID   string     `json:"plan_id"`
	Amount   *int64     `json:"amount"`
	PaidOn   *time.Time `json:"paid_on"`
}

// DashboardResponse mirrors what the dashboard screen renders: headline
// counts plus the members expiring within the next week.
type DashboardResponse struct {
	db.MemberCounts
	ExpiringMembers []db.Member `json:"expiring_members"`
}

// MonthlyRevenuePoint is one bar of the 12-month revenue history.
type MonthlyRevenuePoint struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

// AnalyticsResponse mirrors the analytics screen: revenue this month, last
// month and all time, month-over-month growth, the renewal rate among members
// expiring this month, a 12-month revenue history and the active-member split
// across plans.
type AnalyticsResponse struct {
	ThisMonthRevenue   int64                 `json:"this_month_revenue"`
	LastMonthRevenue   int64                 `json:"last_month_revenue"`
	AllTimeRevenue     int64                 `json:"all_time_revenue"`
	GrowthPercent      float64               `json:"growth_percent"`
	ExpiredThisMonth   int                   `json:"expired_this_month"`
	RenewalsThisMonth  int                   `json:"renewals_this_month"`
	RenewalRatePercent float64               `json:"renewal_rate_percent"`
	MonthlyRevenue     []MonthlyRevenuePoint `json:"monthly_revenue"`
	PlanDistribution   []db.PlanCount        `json:"plan_distribution"`
}
