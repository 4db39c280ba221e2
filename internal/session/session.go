// Package session issues and resolves the opaque bearer tokens carried
// in the hi_food_session cookie.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hifood/hifood-server/internal/models"
	"github.com/hifood/hifood-server/internal/store"
)

type Manager struct {
	store store.Store
	// ttl of zero disables expiry: a session lives until logout
	// removes it.
	ttl time.Duration
}

func NewManager(s store.Store, ttl time.Duration) *Manager {
	return &Manager{store: s, ttl: ttl}
}

// Create appends a session record for userID and returns its token.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	sess := models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := store.Put(ctx, m.store, store.CollectionSessions, token, sess); err != nil {
		return "", fmt.Errorf("session: create: %w", err)
	}
	return token, nil
}

// Resolve returns the session for token, or nil when the token is
// unknown, empty, or expired under a configured TTL.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	sessions, err := store.ListAs[models.Session](ctx, m.store, store.CollectionSessions)
	if err != nil {
		return nil, fmt.Errorf("session: resolve: %w", err)
	}
	for _, s := range sessions {
		if s.Token != token {
			continue
		}
		if m.ttl > 0 {
			expires := time.UnixMilli(s.CreatedAt).Add(m.ttl)
			if time.Now().After(expires) {
				return nil, nil
			}
		}
		return &s, nil
	}
	return nil, nil
}

// Destroy removes every session with the given token. Destroying an
// unknown token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	sessions, err := store.ListAs[models.Session](ctx, m.store, store.CollectionSessions)
	if err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}
	kept := make([]models.Session, 0, len(sessions))
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		if s.Token == token {
			continue
		}
		kept = append(kept, s)
		ids = append(ids, s.Token)
	}
	if err := store.ReplaceAll(ctx, m.store, store.CollectionSessions, ids, kept); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}
	return nil
}
