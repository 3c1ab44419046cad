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

// ListMembers returns the gym's members, optionally narrowed by a name/phone
// search and a derived expiry status.
func (s *serviceImpl) ListMembers(ctx context.Context, ident auth.Identity, filter MemberFilter) ([]db.Member, error) {
	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, gym.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing members: %v", ErrDatabase, err)
	}

	now := s.now()
	filtered := members[:0]
	for _, m := range members {
		if filter.Search != "" {
			q := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(m.Name), q) && !strings.Contains(m.Phone, filter.Search) {
				continue
			}
		}
		switch filter.Status {
		case StatusActive:
			if m.ExpiryDate.Before(now) {
				continue
			}
		case StatusExpiring:
			if m.ExpiryDate.Before(now) || m.ExpiryDate.After(now.Add(expiringWindow)) {
				continue
			}
		case StatusExpired:
			if !m.ExpiryDate.Before(now) {
				continue
			}
		}
		filtered = append(filtered, m)
	}
	return filtered, nil
}

func (s *serviceImpl) GetMember(ctx context.Context, ident auth.Identity, id string) (db.Member, error) {
	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return db.Member{}, err
	}
	member, err := s.store.GetMember(ctx, gym.ID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Member{}, fmt.Errorf("%w: member %s", ErrNotFound, id)
	}
	if err != nil {
		return db.Member{}, fmt.Errorf("%w: fetching member: %v", ErrDatabase, err)
	}
	return member, nil
}

// AddMember creates a member on the selected gym plan. The plan's name and
// amount are snapshotted onto the member and the first expiry is join date
// plus the plan duration.
func (s *serviceImpl) AddMember(ctx context.Context, ident auth.Identity, params AddMemberParams) (db.Member, error) {
	if strings.TrimSpace(params.Name) == "" {
		return db.Member{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if strings.TrimSpace(params.Phone) == "" {
		return db.Member{}, fmt.Errorf("%w: phone is required", ErrInvalid)
	}
	if params.PlanID == "" {
		return db.Member{}, fmt.Errorf("%w: plan_id is required", ErrInvalid)
	}

	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return db.Member{}, err
	}
	plan, err := s.store.GetPlan(ctx, gym.ID, params.PlanID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Member{}, fmt.Errorf("%w: plan %s", ErrNotFound, params.PlanID)
	}
	if err != nil {
		return db.Member{}, fmt.Errorf("%w: fetching plan: %v", ErrDatabase, err)
	}

	joinDate := s.now()
	if params.JoinDate != nil {
		joinDate = *params.JoinDate
	}
	member := db.Member{
		GymID:      gym.ID,
		Name:       strings.TrimSpace(params.Name),
		Email:      params.Email,
		Phone:      strings.TrimSpace(params.Phone),
		Plan:       plan.Name,
		Amount:     plan.Amount,
		JoinDate:   joinDate,
		ExpiryDate: joinDate.Add(membershipTerm(plan.DurationDays)),
		Notes:      params.Notes,
	}
	id, err := s.store.InsertMember(ctx, member)
	if err != nil {
		return db.Member{}, fmt.Errorf("%w: inserting member: %v", ErrDatabase, err)
	}
	member.ID = id
	return member, nil
}

func (s *serviceImpl) UpdateMember(ctx context.Context, ident auth.Identity, id string, params UpdateMemberParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if strings.TrimSpace(params.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalid)
	}
	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return err
	}
	if _, err := s.GetMember(ctx, ident, id); err != nil {
		return err
	}
	if err := s.store.UpdateMemberContact(ctx, gym.ID, id, strings.TrimSpace(params.Name), params.Email, strings.TrimSpace(params.Phone), params.Notes); err != nil {
		return fmt.Errorf("%w: updating member: %v", ErrDatabase, err)
	}
	return nil
}

func (s *serviceImpl) DeleteMember(ctx context.Context, ident auth.Identity, id string) error {
	gym, err := s.gymFor(ctx, ident)
	if err != nil {
		return err
	}
	if _, err := s.GetMember(ctx, ident, id); err != nil {
		return err
	}
	if err := s.store.DeleteMember(ctx, gym.ID, id); err != nil {
		return fmt.Errorf("%w: deleting member: %v", ErrDatabase, err)
	}
	return nil
}
