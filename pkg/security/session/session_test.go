package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()

	base := []Option{WithKey(testKey)}
	mgr, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return mgr
}

func TestSignVerify_RoundTrip(t *testing.T) {
	mgr := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Sign(ctx, 42, "nurse")
	require.NoError(t, err)

	claims, err := mgr.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.AccountID)
	assert.Equal(t, "nurse", claims.RoleHint)
	assert.NotEmpty(t, claims.SessionID)
}

func TestVerify_RejectsBadTokens(t *testing.T) {
	mgr := newTestManager(t)
	ctx := context.Background()

	_, err := mgr.Verify(ctx, "")
	assert.Error(t, err)

	_, err = mgr.Verify(ctx, "not-a-jwt")
	assert.Error(t, err)

	// Token signed with a different key.
	other := newTestManager(t, WithKey("ffffffffffffffffffffffffffffffff"))
	token, err := other.Sign(ctx, 42, "nurse")
	require.NoError(t, err)
	_, err = mgr.Verify(ctx, token)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	mgr := newTestManager(t, WithExpired(time.Millisecond))
	ctx := context.Background()

	token, err := mgr.Sign(ctx, 42, "nurse")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = mgr.Verify(ctx, token)
	assert.Error(t, err)
}

func TestVerify_Revoked(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	mgr := newTestManager(t, WithStore(store))
	ctx := context.Background()

	token, err := mgr.Sign(ctx, 42, "nurse")
	require.NoError(t, err)

	_, err = mgr.Verify(ctx, token)
	require.NoError(t, err)

	require.NoError(t, mgr.Revoke(ctx, token))

	_, err = mgr.Verify(ctx, token)
	assert.Error(t, err)
}

func TestNew_RejectsWeakKey(t *testing.T) {
	_, err := New(WithKey("short"))
	assert.Error(t, err)

	_, err = New()
	assert.Error(t, err)
}

func TestMemoryStore_RevocationExpires(t *testing.T) {
	store := NewMemoryStore(time.Minute).(*memoryStore)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token-a", 10*time.Millisecond))

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	time.Sleep(20 * time.Millisecond)

	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	// The sweep drops the stale entry entirely.
	store.cleanup()
	store.mu.RLock()
	_, present := store.revoked["token-a"]
	store.mu.RUnlock()
	assert.False(t, present)
}
