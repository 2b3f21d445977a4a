package gateway

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/folio-org/edge-common-sub000/internal/apikey"
	"github.com/folio-org/edge-common-sub000/internal/cache"
	"github.com/folio-org/edge-common-sub000/internal/config"
	"github.com/folio-org/edge-common-sub000/internal/observability"
	"github.com/folio-org/edge-common-sub000/internal/okapi"
	"github.com/folio-org/edge-common-sub000/internal/securestore"
)

// RelayAction makes the actual backend call for a route once
// authentication has succeeded. It receives the tenant's client with the
// session token already applied and the validated parameter map, and
// returns the buffered backend response to relay.
type RelayAction func(
	ctx context.Context,
	client *okapi.Client,
	params map[string]string,
) (*okapi.Response, error)

// Orchestrator drives the per-request authentication and relay pipeline.
// It is constructed once in the composition root with all collaborators
// injected.
type Orchestrator struct {
	extractor *apikey.Extractor
	tokens    *cache.TokenCache
	store     securestore.Store
	registry  *okapi.Registry
	logger    observability.Logger
}

// NewOrchestrator wires an orchestrator. A missing collaborator is a
// wiring bug surfaced at construction, not at request time.
func NewOrchestrator(
	extractor *apikey.Extractor,
	tokens *cache.TokenCache,
	store securestore.Store,
	registry *okapi.Registry,
	logger observability.Logger,
) (*Orchestrator, error) {
	switch {
	case extractor == nil:
		return nil, config.NewConfigError("extractor", "api key extractor is required")
	case tokens == nil:
		return nil, config.NewConfigError("tokens", "token cache is required")
	case store == nil:
		return nil, config.NewConfigError("store", "secure store is required")
	case registry == nil:
		return nil, config.NewConfigError("registry", "backend client registry is required")
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Orchestrator{
		extractor: extractor,
		tokens:    tokens,
		store:     store,
		registry:  registry,
		logger:    logger,
	}, nil
}

// Handle runs the full pipeline for one request: extract and decode the
// API key, validate declared parameters, acquire a session token (cached
// or via login), apply it to the tenant's client and invoke the action.
// Exactly one of {action invoked, error response written} happens per
// request.
func (o *Orchestrator) Handle(c *gin.Context, required, optional []string, action RelayAction) {
	ctx := c.Request.Context()
	logger := o.logger.WithContext(ctx)

	key, err := o.extractor.Extract(c)
	if err != nil {
		accessDenied(c, "Access Denied")
		return
	}

	params, missing := collectParams(c, required, optional)
	if missing != "" {
		badRequest(c, "Missing required parameter: "+missing)
		return
	}

	id, err := apikey.Parse(key)
	if err != nil {
		logger.Info("rejected malformed api key", observability.Error(err))
		accessDenied(c, err.Error())
		return
	}

	logger = logger.With(
		observability.String("tenant", id.TenantID),
		observability.String("username", id.Username),
	)

	client := o.registry.Get(id.TenantID)

	token, hit := o.tokens.Get(id.Salt, id.TenantID, id.Username)
	if hit {
		logger.Debug("using cached session token")
	} else {
		token, err = o.acquireToken(ctx, client, id)
		if err != nil {
			if okapi.IsTimeout(err) {
				logger.Warn("token acquisition timed out", observability.Error(err))
				requestTimeout(c)
				return
			}
			// Password-not-found and login failures are deliberately
			// indistinguishable at the HTTP boundary.
			logger.Info("token acquisition failed", observability.Error(err))
			accessDenied(c, "Access Denied")
			return
		}
		if token == "" {
			logger.Info("backend rejected institutional credentials")
			accessDenied(c, "Access Denied")
			return
		}
		// A concurrent winner's entry survives; use whatever the cache
		// holds now.
		token = o.tokens.Put(id.Salt, id.TenantID, id.Username, token)
	}

	client.SetToken(token)

	resp, err := action(ctx, client, params)
	if err != nil {
		relayError(c, err, logger)
		return
	}
	relay(c, resp)
}

// acquireToken resolves the institutional password and performs the
// backend login. An empty token with a nil error means the backend
// rejected the credentials.
func (o *Orchestrator) acquireToken(
	ctx context.Context,
	client *okapi.Client,
	id apikey.Identity,
) (string, error) {
	password, err := o.store.Get(ctx, id.Salt, id.TenantID, id.Username)
	if err != nil {
		return "", err
	}
	return client.Login(ctx, id.Username, password)
}

// collectParams validates declared parameters against the request. The
// first missing required parameter is returned by name; optional
// parameters are included only when present.
func collectParams(c *gin.Context, required, optional []string) (map[string]string, string) {
	params := make(map[string]string, len(required)+len(optional))
	for _, name := range required {
		value := paramValue(c, name)
		if value == "" {
			return nil, name
		}
		params[name] = value
	}
	for _, name := range optional {
		if value := paramValue(c, name); value != "" {
			params[name] = value
		}
	}
	return params, ""
}

// paramValue reads a declared parameter from the route path first, then
// the query string.
func paramValue(c *gin.Context, name string) string {
	if value := c.Param(name); value != "" {
		return value
	}
	return c.Query(name)
}
