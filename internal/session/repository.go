package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/models"
	"github.com/SanjanaPaudel/Sajha-Sathi/internal/state"
)

// Durable key layout. The current user lives under a fixed key; each user's
// notification list lives under its own key so lists are replaced wholesale,
// never merged across identities.
const userKey = "user"

func notificationsKey(userID string) string {
	return "notifications_" + userID
}

// Repository persists the session across process restarts. Absent values are
// reported as nil results, not errors.
type Repository interface {
	LoadUser(ctx context.Context) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	ClearUser(ctx context.Context) error

	LoadNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	SaveNotifications(ctx context.Context, userID string, list []models.Notification) error
	ClearNotifications(ctx context.Context, userID string) error
}

// StateRepository implements Repository over the durable key-value state.
type StateRepository struct {
	store state.Store
}

// NewStateRepository constructs a Repository backed by the supplied store.
func NewStateRepository(store state.Store) (*StateRepository, error) {
	if store == nil {
		return nil, errors.New("session: state store is required")
	}
	return &StateRepository{store: store}, nil
}

// LoadUser returns the persisted current user, or nil when logged out.
func (r *StateRepository) LoadUser(ctx context.Context) (*models.User, error) {
	raw, ok, err := r.store.Get(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("session: load user: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("session: decode stored user: %w", err)
	}
	return &user, nil
}

// SaveUser persists the current user under the fixed session key.
func (r *StateRepository) SaveUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("session: cannot save nil user")
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	if err := r.store.Set(ctx, userKey, raw); err != nil {
		return fmt.Errorf("session: save user: %w", err)
	}
	return nil
}

// ClearUser removes the persisted session key.
func (r *StateRepository) ClearUser(ctx context.Context) error {
	if err := r.store.Delete(ctx, userKey); err != nil {
		return fmt.Errorf("session: clear user: %w", err)
	}
	return nil
}

// LoadNotifications returns the persisted list for userID, or nil when absent.
func (r *StateRepository) LoadNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	raw, ok, err := r.store.Get(ctx, notificationsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("session: load notifications: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var list []models.Notification
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("session: decode stored notifications: %w", err)
	}
	return list, nil
}

// SaveNotifications replaces the persisted list for userID.
func (r *StateRepository) SaveNotifications(ctx context.Context, userID string, list []models.Notification) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("session: encode notifications: %w", err)
	}
	if err := r.store.Set(ctx, notificationsKey(userID), raw); err != nil {
		return fmt.Errorf("session: save notifications: %w", err)
	}
	return nil
}

// ClearNotifications removes the persisted list for userID.
func (r *StateRepository) ClearNotifications(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, notificationsKey(userID)); err != nil {
		return fmt.Errorf("session: clear notifications: %w", err)
	}
	return nil
}
