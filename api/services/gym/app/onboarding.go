package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/gym/db"
)

// RegisterGym creates the owner record and the gym record for a freshly
// signed-up account. Every other gym operation resolves the caller's gym, so
// nothing works until this has run once.
//
// Two independent inserts. If the gym insert fails after the owner row
// landed, the error surfaces and a retry hits ErrConflict on the owner row;
// recovering from that half-onboarded state is an operator action.
func (s *serviceImpl) RegisterGym(ctx context.Context, ident auth.Identity, params RegisterGymParams) (db.Gym, error) {
	if ident.UserID == "" {
		return db.Gym{}, fmt.Errorf("%w: missing caller identity", auth.ErrUnauthenticated)
	}
	required := []struct{ field, value string }{
		{"gym_name", params.GymName},
		{"owner_name", params.OwnerName},
		{"phone", params.Phone},
		{"address", params.Address},
		{"city", params.City},
		{"pincode", params.Pincode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return db.Gym{}, fmt.Errorf("%w: %s is required", ErrInvalid, r.field)
		}
	}

	_, err := s.store.GymByOwner(ctx, ident.UserID)
	if err == nil {
		return db.Gym{}, fmt.Errorf("%w: gym already registered for this owner", ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return db.Gym{}, fmt.Errorf("%w: resolving gym: %v", ErrDatabase, err)
	}

	if err := s.store.InsertOwner(ctx, db.GymOwner{
		ID:        ident.UserID,
		OwnerName: strings.TrimSpace(params.OwnerName),
		Phone:     strings.TrimSpace(params.Phone),
		Status:    ownerInitialStatus,
	}); err != nil {
		return db.Gym{}, fmt.Errorf("%w: inserting owner: %v", ErrDatabase, err)
	}

	gym := db.Gym{
		OwnerID: ident.UserID,
		Name:    strings.TrimSpace(params.GymName),
		Address: strings.TrimSpace(params.Address),
		City:    strings.TrimSpace(params.City),
		Pincode: strings.TrimSpace(params.Pincode),
		Status:  gymInitialStatus,
	}
	id, err := s.store.InsertGym(ctx, gym)
	if err != nil {
		s.logger.Error("owner created but gym insert failed",
			zap.String("owner_id", ident.UserID),
			zap.Error(err))
		return db.Gym{}, fmt.Errorf("%w: inserting gym: %v", ErrDatabase, err)
	}
	gym.ID = id
	return gym, nil
}
