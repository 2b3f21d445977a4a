package securestore

import (
	"context"
	"strings"
	"time"

	"github.com/folio-org/edge-common-sub000/internal/config"
	"github.com/folio-org/edge-common-sub000/internal/observability"
)

// EphemeralStore keeps credentials in process memory, seeded once from
// configuration. Lookups key purely on (tenant, username); the clientID
// plays no part. Intended for development and single-box deployments.
type EphemeralStore struct {
	passwords map[string]string
	logger    observability.Logger
}

// NewEphemeralStore seeds a store from the configured tenant listing.
// Each tenant carries a single "username,password" pair. An empty
// listing is allowed but almost certainly a misconfiguration, so it is
// logged as a warning.
func NewEphemeralStore(
	tenants []config.TenantCredential,
	logger observability.Logger,
) (*EphemeralStore, error) {
	if logger == nil {
		logger = observability.NopLogger()
	}

	passwords := make(map[string]string, len(tenants))
	for _, tc := range tenants {
		if tc.Tenant == "" {
			return nil, config.NewConfigError("secureStore.tenants", "tenant id is empty")
		}
		username, password, ok := strings.Cut(tc.Credentials, ",")
		if !ok || username == "" {
			return nil, config.NewConfigError("secureStore.tenants",
				"credentials for tenant "+tc.Tenant+" must be a username,password pair")
		}
		passwords[ephemeralKey(tc.Tenant, username)] = password
	}

	if len(passwords) == 0 {
		logger.Warn("ephemeral secure store has no seeded credentials")
	}

	return &EphemeralStore{passwords: passwords, logger: logger}, nil
}

// Get resolves the password for (tenant, username). The clientID is
// ignored by this variant.
func (s *EphemeralStore) Get(_ context.Context, _, tenant, username string) (string, error) {
	start := time.Now()

	password, ok := s.passwords[ephemeralKey(tenant, username)]
	if !ok {
		recordOperation("ephemeral", start, ErrSecretNotFound)
		return "", ErrSecretNotFound
	}

	recordOperation("ephemeral", start, nil)
	return password, nil
}

func ephemeralKey(tenant, username string) string {
	return tenant + ":" + username
}

// Ensure EphemeralStore implements Store.
var _ Store = (*EphemeralStore)(nil)
