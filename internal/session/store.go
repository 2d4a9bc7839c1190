package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/railbook/railbook_core/internal/cache"
	"github.com/railbook/railbook_core/internal/models"
)

// ErrNotFound is returned when a session id has no stored selection
var ErrNotFound = errors.New("session not found")

// Create stores a fresh trip selection and returns it
func Create(ctx context.Context) (*models.TripSelection, error) {
	now := time.Now().UTC()
	sel := &models.TripSelection{
		ID:         uuid.NewString(),
		TripType:   models.TripOneWay,
		Passengers: models.PassengerCounts{Adults: 1},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := Save(ctx, sel); err != nil {
		return nil, err
	}

	return sel, nil
}

// Get loads a trip selection by session id
func Get(ctx context.Context, id string) (*models.TripSelection, error) {
	var sel models.TripSelection
	err := cache.GetJSON(ctx, cache.SessionKey(id), &sel)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &sel, nil
}

// Save persists the selection. Called after every mutation; sessions are
// never explicitly destroyed, they expire by TTL.
func Save(ctx context.Context, sel *models.TripSelection) error {
	sel.UpdatedAt = time.Now().UTC()
	ttl := cache.LoadConfigFromEnv().SessionTTL
	if err := cache.SetJSON(ctx, cache.SessionKey(sel.ID), sel, ttl); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Dispatch loads a selection, applies one action and writes it back
func Dispatch(ctx context.Context, id string, action Action) (*models.TripSelection, error) {
	sel, err := Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := Apply(sel, action); err != nil {
		return nil, err
	}

	if err := Save(ctx, sel); err != nil {
		return nil, err
	}

	return sel, nil
}
