package securestore

import (
	"context"
	"fmt"
	"time"

	vaultapi "github.com/hashicorp/vault/api"

	"github.com/folio-org/edge-common-sub000/internal/config"
	"github.com/folio-org/edge-common-sub000/internal/observability"
)

// defaultVaultMount is the KV mount point used when none is configured.
const defaultVaultMount = "secret"

// VaultStore resolves credentials from a HashiCorp Vault KV engine. The
// secret lives at <mount>/<clientID>/<tenant> and the field named by the
// username holds the password.
type VaultStore struct {
	logical vaultLogical
	mount   string
	logger  observability.Logger
}

// vaultLogical is the slice of the Vault API the store needs; the
// indirection keeps tests free of a running Vault.
type vaultLogical interface {
	ReadWithContext(ctx context.Context, path string) (*vaultapi.Secret, error)
}

// NewVaultStore creates a Vault-backed store. Connection properties are
// validated here, not per request.
func NewVaultStore(cfg *config.VaultStoreConfig, logger observability.Logger) (*VaultStore, error) {
	if cfg == nil || cfg.Address == "" {
		return nil, config.NewConfigError("secureStore.vault.address", "vault address is required")
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	vc := vaultapi.DefaultConfig()
	vc.Address = cfg.Address
	if cfg.Timeout > 0 {
		vc.Timeout = cfg.Timeout.Duration()
	}

	client, err := vaultapi.NewClient(vc)
	if err != nil {
		return nil, config.NewConfigErrorWithCause("secureStore.vault", "failed to create vault client", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	mount := cfg.MountPath
	if mount == "" {
		mount = defaultVaultMount
	}

	logger.Info("vault secure store initialized",
		observability.String("address", cfg.Address),
		observability.String("mount", mount))

	return &VaultStore{logical: client.Logical(), mount: mount, logger: logger}, nil
}

// Get reads the password field named by username from the secret at
// <mount>/<clientID>/<tenant>. A missing path or field is a not-found;
// transport and auth failures from Vault propagate as-is.
func (s *VaultStore) Get(ctx context.Context, clientID, tenant, username string) (string, error) {
	start := time.Now()
	path := fmt.Sprintf("%s/%s/%s", s.mount, clientID, tenant)

	secret, err := s.logical.ReadWithContext(ctx, path)
	if err != nil {
		recordOperation("vault", start, err)
		return "", err
	}
	if secret == nil || secret.Data == nil {
		recordOperation("vault", start, ErrSecretNotFound)
		return "", ErrSecretNotFound
	}

	password, ok := secret.Data[username].(string)
	if !ok {
		recordOperation("vault", start, ErrSecretNotFound)
		return "", ErrSecretNotFound
	}

	recordOperation("vault", start, nil)
	return password, nil
}

// Ensure VaultStore implements Store.
var _ Store = (*VaultStore)(nil)
