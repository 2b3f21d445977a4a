package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-org/edge-common-sub000/internal/config"
)

func newTestTokenCache(t *testing.T) *TokenCache {
	t.Helper()
	tc, err := NewTokenCache(time.Hour, time.Second, 10, nil)
	require.NoError(t, err)
	return tc
}

func TestNewTokenCache(t *testing.T) {
	t.Parallel()

	tc := newTestTokenCache(t)
	assert.Equal(t, 0, tc.Size())
}

func TestNewTokenCache_InvalidParameters(t *testing.T) {
	t.Parallel()

	_, err := NewTokenCache(0, time.Second, 10, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigInvalid)

	_, err = NewTokenCache(time.Hour, time.Second, 0, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigInvalid)
}

func TestTokenCache_PutAndGet(t *testing.T) {
	t.Parallel()

	tc := newTestTokenCache(t)

	_, ok := tc.Get("client", "diku", "edge_user")
	assert.False(t, ok)

	cached := tc.Put("client", "diku", "edge_user", "token-1")
	assert.Equal(t, "token-1", cached)

	token, ok := tc.Get("client", "diku", "edge_user")
	require.True(t, ok)
	assert.Equal(t, "token-1", token)
}

func TestTokenCache_FirstPutWins(t *testing.T) {
	t.Parallel()

	tc := newTestTokenCache(t)

	tc.Put("client", "diku", "edge_user", "token-1")
	cached := tc.Put("client", "diku", "edge_user", "token-2")

	// The racing loser gets the winner's token back.
	assert.Equal(t, "token-1", cached)

	token, ok := tc.Get("client", "diku", "edge_user")
	require.True(t, ok)
	assert.Equal(t, "token-1", token)
}

func TestTokenCache_KeyIsolation(t *testing.T) {
	t.Parallel()

	tc := newTestTokenCache(t)

	tc.Put("client-a", "diku", "edge_user", "token-a")
	tc.Put("client-b", "diku", "edge_user", "token-b")
	tc.Put("client-a", "other", "edge_user", "token-c")

	token, ok := tc.Get("client-a", "diku", "edge_user")
	require.True(t, ok)
	assert.Equal(t, "token-a", token)

	token, ok = tc.Get("client-b", "diku", "edge_user")
	require.True(t, ok)
	assert.Equal(t, "token-b", token)

	token, ok = tc.Get("client-a", "other", "edge_user")
	require.True(t, ok)
	assert.Equal(t, "token-c", token)
}

func TestTokenCache_ReinitializeDiscardsTokens(t *testing.T) {
	t.Parallel()

	tc := newTestTokenCache(t)

	tc.Put("client", "diku", "edge_user", "token-1")
	require.Equal(t, 1, tc.Size())

	err := tc.Reinitialize(time.Hour, time.Second, 20)
	require.NoError(t, err)

	assert.Equal(t, 0, tc.Size())
	_, ok := tc.Get("client", "diku", "edge_user")
	assert.False(t, ok)
}

func TestTokenCache_ReinitializeInvalidParameters(t *testing.T) {
	t.Parallel()

	tc := newTestTokenCache(t)
	tc.Put("client", "diku", "edge_user", "token-1")

	err := tc.Reinitialize(0, time.Second, 10)
	require.Error(t, err)

	// A failed re-initialization leaves the previous cache in place.
	token, ok := tc.Get("client", "diku", "edge_user")
	require.True(t, ok)
	assert.Equal(t, "token-1", token)
}

func TestTokenCache_UninitializedPanics(t *testing.T) {
	t.Parallel()

	var tc TokenCache
	assert.Panics(t, func() {
		tc.Get("client", "diku", "edge_user")
	})
}

func TestTokenKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "client:diku:edge_user", tokenKey("client", "diku", "edge_user"))
}
