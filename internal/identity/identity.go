// Package identity converges the three credential sources (password,
// Google, Facebook) onto one local user record and a session.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hifood/hifood-server/internal/hash"
	"github.com/hifood/hifood-server/internal/models"
	"github.com/hifood/hifood-server/internal/session"
	"github.com/hifood/hifood-server/internal/store"
)

var (
	ErrInvalidInput       = errors.New("missing required fields")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Verifier checks a provider-issued token out-of-band and returns the
// asserted identity. Verification itself happens at the provider; this
// package only consumes the result.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Identity is what a provider asserts about the holder of a token.
type Identity struct {
	Email string
	Name  string
}

type Service struct {
	store    store.Store
	sessions *session.Manager
}

func NewService(s store.Store, sessions *session.Manager) *Service {
	return &Service{store: s, sessions: sessions}
}

// Register creates a user with the default role. It deliberately does
// not create a session; the client logs in as a second step.
func (s *Service) Register(ctx context.Context, name, email, phone, password string) (models.User, error) {
	if name == "" || email == "" || password == "" {
		return models.User{}, ErrInvalidInput
	}
	users, err := store.ListAs[models.User](ctx, s.store, store.CollectionUsers)
	if err != nil {
		return models.User{}, fmt.Errorf("identity: register: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			return models.User{}, ErrDuplicateEmail
		}
	}
	hashed, err := hash.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("identity: hash password: %w", err)
	}
	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := store.Put(ctx, s.store, store.CollectionUsers, user.ID, user); err != nil {
		return models.User{}, fmt.Errorf("identity: register: %w", err)
	}
	return user, nil
}

// LoginPassword matches by email first, then phone, and issues a
// session token on success.
func (s *Service) LoginPassword(ctx context.Context, email, phone, password string) (models.User, string, error) {
	users, err := store.ListAs[models.User](ctx, s.store, store.CollectionUsers)
	if err != nil {
		return models.User{}, "", fmt.Errorf("identity: login: %w", err)
	}
	var match *models.User
	if email != "" {
		for i, u := range users {
			if u.Email == email && hash.CheckPassword(u.PasswordHash, password) {
				match = &users[i]
				break
			}
		}
	}
	if match == nil && phone != "" {
		for i, u := range users {
			if u.Phone == phone && hash.CheckPassword(u.PasswordHash, password) {
				match = &users[i]
				break
			}
		}
	}
	if match == nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	token, err := s.sessions.Create(ctx, match.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return *match, token, nil
}

// LoginFederated verifies the provider token, finds or creates the
// local user by email, and issues a session. A user created here has an
// empty password hash, so the password path can never match it.
func (s *Service) LoginFederated(ctx context.Context, v Verifier, token string) (models.User, string, error) {
	ident, err := v.Verify(ctx, token)
	if err != nil {
		return models.User{}, "", err
	}
	users, err := store.ListAs[models.User](ctx, s.store, store.CollectionUsers)
	if err != nil {
		return models.User{}, "", fmt.Errorf("identity: federated login: %w", err)
	}
	var user models.User
	found := false
	for _, u := range users {
		if u.Email == ident.Email {
			user = u
			found = true
			break
		}
	}
	if !found {
		user = models.User{
			ID:        uuid.NewString(),
			Name:      ident.Name,
			Email:     ident.Email,
			Role:      models.RoleUser,
			CreatedAt: time.Now().UnixMilli(),
		}
		if err := store.Put(ctx, s.store, store.CollectionUsers, user.ID, user); err != nil {
			return models.User{}, "", fmt.Errorf("identity: federated login: %w", err)
		}
	}
	tok, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return user, tok, nil
}

// UserByID loads a single user. Returns store.ErrNotFound when absent.
func (s *Service) UserByID(ctx context.Context, id string) (models.User, error) {
	return store.GetAs[models.User](ctx, s.store, store.CollectionUsers, id)
}
