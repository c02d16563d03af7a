package api

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjoshi/kitegate/config"
)

func testConfig(sessionSecret string) *config.Config {
	return &config.Config{SessionSecret: sessionSecret}
}

func newSession(ttl time.Duration) AuthSession {
	now := time.Now()
	return AuthSession{
		AccessToken:    "acc-1",
		UserID:         "AB1234",
		ExpiresAt:      now.Add(ttl),
		LastAccessedAt: now,
	}
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore(0)

	_, ok := store.Get("missing")
	assert.False(t, ok)

	store.Put("tok", newSession(time.Hour))
	session, ok := store.Get("tok")
	require.True(t, ok)
	assert.Equal(t, "acc-1", session.AccessToken)
	assert.Equal(t, "AB1234", session.UserID)

	store.Delete("tok")
	_, ok = store.Get("tok")
	assert.False(t, ok)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore(0)

	store.Put("tok", newSession(-time.Minute))
	_, ok := store.Get("tok")
	assert.False(t, ok)
}

func TestMemorySessionStoreIdleTimeout(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)

	session := newSession(time.Hour)
	session.LastAccessedAt = time.Now().Add(-2 * time.Minute)
	store.Put("tok", session)

	_, ok := store.Get("tok")
	assert.False(t, ok)
}

func TestBoltSessionStore(t *testing.T) {
	store, err := NewBoltSessionStoreFromFile(filepath.Join(t.TempDir(), "sessions.db"), 0, nil)
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	put := newSession(time.Hour)
	store.Put("tok", put)

	got, ok := store.Get("tok")
	require.True(t, ok)
	assert.Equal(t, put.AccessToken, got.AccessToken)
	assert.Equal(t, put.UserID, got.UserID)
	assert.WithinDuration(t, put.ExpiresAt, got.ExpiresAt, time.Second)

	store.Delete("tok")
	_, ok = store.Get("tok")
	assert.False(t, ok)
}

func TestBoltSessionStorePrunesExpired(t *testing.T) {
	store, err := NewBoltSessionStoreFromFile(filepath.Join(t.TempDir(), "sessions.db"), 0, nil)
	require.NoError(t, err)
	defer store.Close()

	store.Put("tok", newSession(-time.Minute))
	_, ok := store.Get("tok")
	assert.False(t, ok)
}

func TestSessionTokenSigning(t *testing.T) {
	a := &API{}
	a.cfg = testConfig("secret-a")

	signed := a.signSessionToken("session-token")
	token, ok := a.verifySessionToken(signed)
	require.True(t, ok)
	assert.Equal(t, "session-token", token)

	// Tampered value fails verification.
	_, ok = a.verifySessionToken(signed + "x")
	assert.False(t, ok)

	// Missing signature separator fails.
	_, ok = a.verifySessionToken("no-separator")
	assert.False(t, ok)

	// A different key rejects tokens signed with the first.
	b := &API{}
	b.cfg = testConfig("secret-b")
	_, ok = b.verifySessionToken(signed)
	assert.False(t, ok)
}
