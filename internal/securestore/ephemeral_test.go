package securestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-org/edge-common-sub000/internal/config"
)

func TestNewEphemeralStore(t *testing.T) {
	t.Parallel()

	store, err := NewEphemeralStore([]config.TenantCredential{
		{Tenant: "diku", Credentials: "edge_user,edge_password"},
		{Tenant: "other", Credentials: "other_user,other_password"},
	}, nil)
	require.NoError(t, err)

	password, err := store.Get(context.Background(), "any-client", "diku", "edge_user")
	require.NoError(t, err)
	assert.Equal(t, "edge_password", password)

	password, err = store.Get(context.Background(), "any-client", "other", "other_user")
	require.NoError(t, err)
	assert.Equal(t, "other_password", password)
}

func TestNewEphemeralStore_EmptySeed(t *testing.T) {
	t.Parallel()

	store, err := NewEphemeralStore(nil, nil)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "client", "diku", "edge_user")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestNewEphemeralStore_InvalidSeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tenants []config.TenantCredential
	}{
		{"empty tenant", []config.TenantCredential{{Tenant: "", Credentials: "u,p"}}},
		{"no comma", []config.TenantCredential{{Tenant: "diku", Credentials: "userpassword"}}},
		{"empty username", []config.TenantCredential{{Tenant: "diku", Credentials: ",password"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewEphemeralStore(tt.tenants, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrConfigInvalid)
		})
	}
}

func TestEphemeralStore_Get_NotFound(t *testing.T) {
	t.Parallel()

	store, err := NewEphemeralStore([]config.TenantCredential{
		{Tenant: "diku", Credentials: "edge_user,edge_password"},
	}, nil)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "client", "diku", "unknown_user")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	_, err = store.Get(context.Background(), "client", "unknown_tenant", "edge_user")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestEphemeralStore_Get_IgnoresClientID(t *testing.T) {
	t.Parallel()

	store, err := NewEphemeralStore([]config.TenantCredential{
		{Tenant: "diku", Credentials: "edge_user,edge_password"},
	}, nil)
	require.NoError(t, err)

	for _, clientID := range []string{"", "client-a", "client-b"} {
		password, err := store.Get(context.Background(), clientID, "diku", "edge_user")
		require.NoError(t, err)
		assert.Equal(t, "edge_password", password)
	}
}

func TestEphemeralStore_PasswordWithComma(t *testing.T) {
	t.Parallel()

	// Only the first comma separates username from password.
	store, err := NewEphemeralStore([]config.TenantCredential{
		{Tenant: "diku", Credentials: "edge_user,pass,with,commas"},
	}, nil)
	require.NoError(t, err)

	password, err := store.Get(context.Background(), "client", "diku", "edge_user")
	require.NoError(t, err)
	assert.Equal(t, "pass,with,commas", password)
}
