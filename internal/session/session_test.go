package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hifood/hifood-server/internal/store/jsonfile"
)

func newManager(t *testing.T, ttl time.Duration) *Manager {
	st, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	return NewManager(st, ttl)
}

func TestCreateResolve(t *testing.T) {
	m := newManager(t, 0)
	ctx := context.Background()

	token, err := m.Create(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "user-1", sess.UserID)
	require.NotZero(t, sess.CreatedAt)
}

func TestResolveUnknownTokenIsNil(t *testing.T) {
	m := newManager(t, 0)

	sess, err := m.Resolve(context.Background(), "no-such-token")
	require.NoError(t, err)
	require.Nil(t, sess)

	sess, err = m.Resolve(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestDestroyIsIdempotent(t *testing.T) {
	m := newManager(t, 0)
	ctx := context.Background()

	token, err := m.Create(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, token))

	sess, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	require.Nil(t, sess)

	// Destroying again, or destroying a token that never existed, is
	// not an error.
	require.NoError(t, m.Destroy(ctx, token))
	require.NoError(t, m.Destroy(ctx, "ghost"))
}

func TestDestroyKeepsOtherSessions(t *testing.T) {
	m := newManager(t, 0)
	ctx := context.Background()

	t1, err := m.Create(ctx, "user-1")
	require.NoError(t, err)
	t2, err := m.Create(ctx, "user-2")
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, t1))

	sess, err := m.Resolve(ctx, t2)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "user-2", sess.UserID)
}

func TestTTLExpiry(t *testing.T) {
	m := newManager(t, 10*time.Millisecond)
	ctx := context.Background()

	token, err := m.Create(ctx, "user-1")
	require.NoError(t, err)

	sess, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)

	time.Sleep(20 * time.Millisecond)

	sess, err = m.Resolve(ctx, token)
	require.NoError(t, err)
	require.Nil(t, sess)
}
