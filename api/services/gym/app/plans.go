package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/gym/db"
)

func (s *serviceImpl) ListPlans(ctx context.Context, ident auth.Identity) ([]db.Plan, error) {
	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return nil, err
	}
	plans, err := s.store.ListPlans(ctx, gym.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing plans: %v", ErrDatabase, err)
	}
	return plans, nil
}

func (s *serviceImpl) AddPlan(ctx context.Context, ident auth.Identity, params AddPlanParams) (db.Plan, error) {
	if strings.TrimSpace(params.Name) == "" {
		return db.Plan{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if params.Amount <= 0 {
		return db.Plan{}, fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}
	if params.DurationDays <= 0 {
		return db.Plan{}, fmt.Errorf("%w: duration must be positive", ErrInvalid)
	}
	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return db.Plan{}, err
	}
	plan := db.Plan{
		GymID:        gym.ID,
		Name:         strings.TrimSpace(params.Name),
		Amount:       params.Amount,
		DurationDays: params.DurationDays,
	}
	id, err := s.store.InsertPlan(ctx, plan)
	if err != nil {
		return db.Plan{}, fmt.Errorf("%w: inserting plan: %v", ErrDatabase, err)
	}
	plan.ID = id
	return plan, nil
}

func (s *serviceImpl) DeletePlan(ctx context.Context, ident auth.Identity, id string) error {
	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return err
	}
	if _, err := s.store.GetPlan(ctx, gym.ID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: plan %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: fetching plan: %v", ErrDatabase, err)
	}
	if err := s.store.DeletePlan(ctx, gym.ID, id); err != nil {
		return fmt.Errorf("%w: deleting plan: %v", ErrDatabase, err)
	}
	return nil
}
