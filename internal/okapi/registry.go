package okapi

import (
	"sync"
	"time"

	"github.com/folio-org/edge-common-sub000/internal/config"
	"github.com/folio-org/edge-common-sub000/internal/observability"
)

// Registry hands out one long-lived client per tenant. Clients are
// created on first use and reused for connection and token affinity;
// nothing is ever evicted.
type Registry struct {
	baseURL string
	timeout time.Duration
	logger  observability.Logger

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates a client registry for the configured backend.
func NewRegistry(cfg config.OkapiConfig, logger observability.Logger) (*Registry, error) {
	if cfg.URL == "" {
		return nil, config.NewConfigError("okapi.url", "backend URL is required")
	}
	timeout := cfg.RequestTimeout.Duration()
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Registry{
		baseURL: cfg.URL,
		timeout: timeout,
		logger:  logger,
		clients: make(map[string]*Client),
	}, nil
}

// Get returns the client for a tenant, creating it on first use. Exactly
// one client exists per tenant no matter how many requests race here.
func (r *Registry) Get(tenant string) *Client {
	r.mu.RLock()
	client, ok := r.clients[tenant]
	r.mu.RUnlock()
	if ok {
		return client
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[tenant]; ok {
		return client
	}

	client = NewClient(r.baseURL, tenant, r.timeout, r.logger)
	r.clients[tenant] = client

	r.logger.Debug("created backend client",
		observability.String("tenant", tenant))

	return client
}

// Size returns the number of registered tenant clients.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
