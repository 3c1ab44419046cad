package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/gym/db"
)

// Store is the persistence surface the gym service needs. Implemented by
// db.Postgres; tests substitute a fake.
type Store interface {
	GymByOwner(ctx context.Context, ownerID string) (db.Gym, error)
	InsertOwner(ctx context.Context, owner db.GymOwner) error
	InsertGym(ctx context.Context, gym db.Gym) (string, error)
	ListMembers(ctx context.Context, gymID string) ([]db.Member, error)
	GetMember(ctx context.Context, gymID, id string) (db.Member, error)
	InsertMember(ctx context.Context, m db.Member) (string, error)
	UpdateMemberContact(ctx context.Context, gymID, id, name string, email *string, phone string, notes *string) error
	UpdateMemberBilling(ctx context.Context, gymID, id, plan string, amount int64, expiry time.Time) error
	DeleteMember(ctx context.Context, gymID, id string) error
	ListPlans(ctx context.Context, gymID string) ([]db.Plan, error)
	GetPlan(ctx context.Context, gymID, id string) (db.Plan, error)
	InsertPlan(ctx context.Context, plan db.Plan) (string, error)
	DeletePlan(ctx context.Context, gymID, id string) error
	InsertPayment(ctx context.Context, payment db.Payment) (string, error)
	MemberCounts(ctx context.Context, gymID string, today, sevenDaysLater, monthStart time.Time) (db.MemberCounts, error)
	ExpiringMembers(ctx context.Context, gymID string, from, to time.Time, limit int) ([]db.Member, error)
	RevenueBetween(ctx context.Context, gymID string, from, to time.Time) (int64, error)
	TotalRevenue(ctx context.Context, gymID string) (int64, error)
	RenewalStats(ctx context.Context, gymID string, from, to time.Time) (db.RenewalStats, error)
	MonthlyRevenue(ctx context.Context, gymID string, from, to time.Time) ([]db.MonthRevenue, error)
	PlanDistribution(ctx context.Context, gymID string, now time.Time) ([]db.PlanCount, error)
}

// Service defines the business operations for gym management.
type Service interface {
	RegisterGym(ctx context.Context, ident auth.Identity, params RegisterGymParams) (db.Gym, error)
	ListMembers(ctx context.Context, ident auth.Identity, filter MemberFilter) ([]db.Member, error)
	GetMember(ctx context.Context, ident auth.Identity, id string) (db.Member, error)
	AddMember(ctx context.Context, ident auth.Identity, params AddMemberParams) (db.Member, error)
	UpdateMember(ctx context.Context, ident auth.Identity, id string, params UpdateMemberParams) error
	DeleteMember(ctx context.Context, ident auth.Identity, id string) error
	ListPlans(ctx context.Context, ident auth.Identity) ([]db.Plan, error)
	AddPlan(ctx context.Context, ident auth.Identity, params AddPlanParams) (db.Plan, error)
	DeletePlan(ctx context.Context, ident auth.Identity, id string) error
	RecordPayment(ctx context.Context, ident auth.Identity, params RecordPaymentParams) (db.Member, error)
	Dashboard(ctx context.Context, ident auth.Identity) (DashboardResponse, error)
	Analytics(ctx context.Context, ident auth.Identity) (AnalyticsResponse, error)
}

type serviceImpl struct {
	logger *zap.Logger
	store  Store
	now    func() time.Time
}

func NewService(logger *zap.Logger, store Store) Service {
	return &serviceImpl{
		logger: logger.Named("gym"),
		store:  store,
		now:    time.Now,
	}
}

// gymFor resolves the caller's gym. Every operation is scoped to it.
func (s *serviceImpl) gymFor(ctx context.Context, ident auth.Identity) (db.Gym, error) {
	if ident.UserID == "" {
		return db.Gym{}, fmt.Errorf("%w: missing caller identity", auth.ErrUnauthenticated)
	}
	gym, err := s.store.GymByOwner(ctx, ident.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Gym{}, fmt.Errorf("%w: no gym for owner", ErrNotFound)
	}
	if err != nil {
		return db.Gym{}, fmt.Errorf("%w: resolving gym: %v", ErrDatabase, err)
	}
	return gym, nil
}

// membershipTerm converts a plan duration to a wall-clock term, days as 24h
// durations.
func membershipTerm(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}
