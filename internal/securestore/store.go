// Package securestore resolves institutional credentials from a
// pluggable secret backend. The gateway never persists secrets itself:
// it asks the store for the password tied to a (clientID, tenant,
// username) triple and forwards it to the backend login, nothing more.
package securestore

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/folio-org/edge-common-sub000/internal/config"
	"github.com/folio-org/edge-common-sub000/internal/observability"
)

// ErrSecretNotFound is returned when no secret is associated with the
// requested triple.
var ErrSecretNotFound = errors.New("secret not found")

// Store is the interface over secret backends. Implementations return
// ErrSecretNotFound for a missing secret and propagate transport or
// authentication failures from their backend as-is.
type Store interface {
	// Get resolves the password for the triple.
	Get(ctx context.Context, clientID, tenant, username string) (string, error)
}

// NewStore selects a store implementation by the configured type name.
// Unrecognized or unset types fall back to the in-process ephemeral
// store.
func NewStore(cfg *config.SecureStoreConfig, logger observability.Logger) (Store, error) {
	if cfg == nil {
		cfg = &config.SecureStoreConfig{}
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	switch cfg.Type {
	case config.StoreTypeVault:
		return NewVaultStore(cfg.Vault, logger)
	case config.StoreTypeAWSSSM:
		return NewParamStore(cfg.AWS, logger)
	case config.StoreTypeEphemeral, "":
		return NewEphemeralStore(cfg.Tenants, logger)
	default:
		logger.Warn("unrecognized secure store type, falling back to ephemeral",
			observability.String("type", cfg.Type))
		return NewEphemeralStore(cfg.Tenants, logger)
	}
}

// Prometheus metrics for secret store operations.
var (
	storeOperationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edge",
			Subsystem: "securestore",
			Name:      "operation_total",
			Help:      "Total number of secret store lookups",
		},
		[]string{"store", "result"},
	)

	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edge",
			Subsystem: "securestore",
			Name:      "operation_duration_seconds",
			Help:      "Duration of secret store lookups in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"store", "result"},
	)
)

// recordOperation records metrics for a single store lookup.
func recordOperation(store string, start time.Time, err error) {
	result := "success"
	switch {
	case errors.Is(err, ErrSecretNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	storeOperationTotal.WithLabelValues(store, result).Inc()
	storeOperationDuration.WithLabelValues(store, result).Observe(time.Since(start).Seconds())
}
