package securestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-org/edge-common-sub000/internal/config"
)

func TestNewStore_DefaultsToEphemeral(t *testing.T) {
	t.Parallel()

	store, err := NewStore(nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &EphemeralStore{}, store)

	store, err = NewStore(&config.SecureStoreConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &EphemeralStore{}, store)
}

func TestNewStore_Ephemeral(t *testing.T) {
	t.Parallel()

	store, err := NewStore(&config.SecureStoreConfig{
		Type: config.StoreTypeEphemeral,
		Tenants: []config.TenantCredential{
			{Tenant: "diku", Credentials: "edge_user,edge_password"},
		},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &EphemeralStore{}, store)
}

func TestNewStore_Vault(t *testing.T) {
	t.Parallel()

	store, err := NewStore(&config.SecureStoreConfig{
		Type:  config.StoreTypeVault,
		Vault: &config.VaultStoreConfig{Address: "http://127.0.0.1:8200"},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &VaultStore{}, store)
}

func TestNewStore_VaultMissingConfig(t *testing.T) {
	t.Parallel()

	_, err := NewStore(&config.SecureStoreConfig{Type: config.StoreTypeVault}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigInvalid)
}

func TestNewStore_AWSMissingConfig(t *testing.T) {
	t.Parallel()

	_, err := NewStore(&config.SecureStoreConfig{Type: config.StoreTypeAWSSSM}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigInvalid)
}

func TestNewStore_UnknownTypeFallsBack(t *testing.T) {
	t.Parallel()

	store, err := NewStore(&config.SecureStoreConfig{Type: "etcd"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &EphemeralStore{}, store)
}
