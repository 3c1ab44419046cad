package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gymdesk/gymdesk-backend/api/auth"
)

// expiringListLimit caps the dashboard's expiring-members list.
const expiringListLimit = 5

// Dashboard aggregates the headline numbers the owner sees first: member
// counts by expiry status, this month's new joins, and the members whose
// membership lapses within the next week.
func (s *serviceImpl) Dashboard(ctx context.Context, ident auth.Identity) (DashboardResponse, error) {
	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return DashboardResponse{}, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sevenDaysLater := today.Add(expiringWindow)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	counts, err := s.store.MemberCounts(ctx, gym.ID, today, sevenDaysLater, monthStart)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("%w: aggregating members: %v", ErrDatabase, err)
	}
	expiring, err := s.store.ExpiringMembers(ctx, gym.ID, today, sevenDaysLater, expiringListLimit)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("%w: listing expiring members: %v", ErrDatabase, err)
	}

	return DashboardResponse{
		MemberCounts:    counts,
		ExpiringMembers: expiring,
	}, nil
}
