package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hifood/hifood-server/internal/models"
	"github.com/hifood/hifood-server/internal/session"
	"github.com/hifood/hifood-server/internal/store"
	"github.com/hifood/hifood-server/internal/store/jsonfile"
)

type stubVerifier struct {
	ident Identity
	err   error
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	return s.ident, s.err
}

func newTestService(t *testing.T) (*Service, *session.Manager, store.Store) {
	st, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	sessions := session.NewManager(st, 0)
	return NewService(st, sessions), sessions, st
}

func TestRegisterThenLogin(t *testing.T) {
	svc, sessions, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Lan", "lan@example.com", "0901234567", "secret")
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, user.Role)
	require.NotEqual(t, "secret", user.PasswordHash)

	got, token, err := svc.LoginPassword(ctx, "lan@example.com", "", "secret")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	sess, err := sessions.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, user.ID, sess.UserID)
}

func TestRegisterDoesNotCreateSession(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Lan", "lan@example.com", "", "secret")
	require.NoError(t, err)

	sessions, err := store.ListAs[models.Session](ctx, st, store.CollectionSessions)
	require.NoError(t, err)
	require.Empty(t, sessions)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Lan", "lan@example.com", "", "secret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "lan@example.com", "", "other")
	require.ErrorIs(t, err, ErrDuplicateEmail)

	users, err := store.ListAs[models.User](ctx, st, store.CollectionUsers)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "lan@example.com", "", "secret")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(ctx, "Lan", "", "", "secret")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(ctx, "Lan", "lan@example.com", "", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginByPhone(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Lan", "lan@example.com", "0901234567", "secret")
	require.NoError(t, err)

	got, _, err := svc.LoginPassword(ctx, "", "0901234567", "secret")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Lan", "lan@example.com", "", "secret")
	require.NoError(t, err)

	_, _, err = svc.LoginPassword(ctx, "lan@example.com", "", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.LoginPassword(ctx, "ghost@example.com", "", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFederatedLoginCreatesUserOnce(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()
	verifier := &stubVerifier{ident: Identity{Email: "lan@gmail.com", Name: "Lan"}}

	first, tok1, err := svc.LoginFederated(ctx, verifier, "provider-token")
	require.NoError(t, err)
	require.NotEmpty(t, tok1)
	require.Empty(t, first.PasswordHash)

	// Second login with the same verified email attaches to the
	// existing record instead of creating a duplicate.
	second, tok2, err := svc.LoginFederated(ctx, verifier, "provider-token")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.NotEqual(t, tok1, tok2)

	users, err := store.ListAs[models.User](ctx, st, store.CollectionUsers)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestFederatedLoginAttachesToRegisteredUser(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Lan", "lan@example.com", "", "secret")
	require.NoError(t, err)

	verifier := &stubVerifier{ident: Identity{Email: "lan@example.com", Name: "Lan G"}}
	federated, _, err := svc.LoginFederated(ctx, verifier, "provider-token")
	require.NoError(t, err)
	require.Equal(t, registered.ID, federated.ID)

	users, err := store.ListAs[models.User](ctx, st, store.CollectionUsers)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestFederatedOnlyUserCannotPasswordLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	verifier := &stubVerifier{ident: Identity{Email: "lan@gmail.com", Name: "Lan"}}
	_, _, err := svc.LoginFederated(ctx, verifier, "provider-token")
	require.NoError(t, err)

	// The empty stored hash must never match, not even an empty
	// submitted password.
	_, _, err = svc.LoginPassword(ctx, "lan@gmail.com", "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.LoginPassword(ctx, "lan@gmail.com", "", "anything")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFederatedVerifierFailurePropagates(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()

	verifier := &stubVerifier{err: errors.New("boom")}
	_, _, err := svc.LoginFederated(ctx, verifier, "bad-token")
	require.Error(t, err)

	users, err := store.ListAs[models.User](ctx, st, store.CollectionUsers)
	require.NoError(t, err)
	require.Empty(t, users)
}
