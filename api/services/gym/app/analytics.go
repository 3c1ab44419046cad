package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/gym/db"
)

// revenueHistoryMonths is how far back the revenue chart reaches, current
// month included.
const revenueHistoryMonths = 12

// Analytics aggregates the revenue view: this month vs last month vs all
// time, month-over-month growth, the renewal rate among members expiring this
// month, a 12-month revenue history and the plan split of active members.
func (s *serviceImpl) Analytics(ctx context.Context, ident auth.Identity) (AnalyticsResponse, error) {
	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return AnalyticsResponse{}, err
	}

	now := s.now()
	thisMonthStart := monthStart(now, 0)
	nextMonthStart := monthStart(now, 1)
	lastMonthStart := monthStart(now, -1)

	thisMonth, err := s.store.RevenueBetween(ctx, gym.ID, thisMonthStart, nextMonthStart)
	if err != nil {
		return AnalyticsResponse{}, fmt.Errorf("%w: summing this month's revenue: %v", ErrDatabase, err)
	}
	lastMonth, err := s.store.RevenueBetween(ctx, gym.ID, lastMonthStart, thisMonthStart)
	if err != nil {
		return AnalyticsResponse{}, fmt.Errorf("%w: summing last month's revenue: %v", ErrDatabase, err)
	}
	allTime, err := s.store.TotalRevenue(ctx, gym.ID)
	if err != nil {
		return AnalyticsResponse{}, fmt.Errorf("%w: summing all-time revenue: %v", ErrDatabase, err)
	}

	renewals, err := s.store.RenewalStats(ctx, gym.ID, thisMonthStart, nextMonthStart)
	if err != nil {
		return AnalyticsResponse{}, fmt.Errorf("%w: counting renewals: %v", ErrDatabase, err)
	}

	historyStart := monthStart(now, -(revenueHistoryMonths - 1))
	history, err := s.store.MonthlyRevenue(ctx, gym.ID, historyStart, nextMonthStart)
	if err != nil {
		return AnalyticsResponse{}, fmt.Errorf("%w: bucketing monthly revenue: %v", ErrDatabase, err)
	}

	plans, err := s.store.PlanDistribution(ctx, gym.ID, now)
	if err != nil {
		return AnalyticsResponse{}, fmt.Errorf("%w: counting members per plan: %v", ErrDatabase, err)
	}

	return AnalyticsResponse{
		ThisMonthRevenue:   thisMonth,
		LastMonthRevenue:   lastMonth,
		AllTimeRevenue:     allTime,
		GrowthPercent:      growthPercent(thisMonth, lastMonth),
		ExpiredThisMonth:   renewals.Expired,
		RenewalsThisMonth:  renewals.Renewed,
		RenewalRatePercent: ratePercent(renewals.Renewed, renewals.Expired),
		MonthlyRevenue:     fillMonths(now, history),
		PlanDistribution:   plans,
	}, nil
}

func monthStart(now time.Time, offset int) time.Time {
	return time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, now.Location())
}

// growthPercent is the month-over-month change, one decimal. A first revenue
// month with nothing before it reads as 100% growth.
func growthPercent(thisMonth, lastMonth int64) float64 {
	switch {
	case lastMonth > 0:
		return math.Round(float64(thisMonth-lastMonth)/float64(lastMonth)*1000) / 10
	case thisMonth > 0:
		return 100
	default:
		return 0
	}
}

func ratePercent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}

// fillMonths spreads the sparse per-month sums over a dense 12-bucket series
// ending at the current month, zero-filling quiet months.
func fillMonths(now time.Time, history []db.MonthRevenue) []MonthlyRevenuePoint {
	byMonth := make(map[string]int64, len(history))
	for _, mr := range history {
		byMonth[mr.Month.Format("2006-01")] += mr.Amount
	}
	points := make([]MonthlyRevenuePoint, 0, revenueHistoryMonths)
	for i := -(revenueHistoryMonths - 1); i <= 0; i++ {
		key := monthStart(now, i).Format("2006-01")
		points = append(points, MonthlyRevenuePoint{Month: key, Amount: byMonth[key]})
	}
	return points
}
