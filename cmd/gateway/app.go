package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/folio-org/edge-common-sub000/internal/apikey"
	"github.com/folio-org/edge-common-sub000/internal/cache"
	"github.com/folio-org/edge-common-sub000/internal/config"
	"github.com/folio-org/edge-common-sub000/internal/gateway"
	"github.com/folio-org/edge-common-sub000/internal/observability"
	"github.com/folio-org/edge-common-sub000/internal/okapi"
	"github.com/folio-org/edge-common-sub000/internal/securestore"
)

// application is the gateway's composition root: every shared service is
// constructed exactly once here and handed to the handlers by reference.
type application struct {
	cfg             *config.Config
	logger          observability.Logger
	tokens          *cache.TokenCache
	store           securestore.Store
	registry        *okapi.Registry
	orchestrator    *gateway.Orchestrator
	engine          *gin.Engine
	metricsRegistry *prometheus.Registry
}

// newApplication wires the full service graph from configuration.
// Configuration errors abort startup; nothing here is retried.
func newApplication(cfg *config.Config, logger observability.Logger) (*application, error) {
	tokens, err := cache.NewTokenCache(
		cfg.Cache.TokenTTL.Duration(),
		cfg.Cache.NullTokenTTL.Duration(),
		cfg.Cache.Capacity,
		logger,
	)
	if err != nil {
		return nil, err
	}

	store, err := securestore.NewStore(&cfg.SecureStore, logger)
	if err != nil {
		return nil, err
	}

	registry, err := okapi.NewRegistry(cfg.Okapi, logger)
	if err != nil {
		return nil, err
	}

	extractor, err := apikey.NewExtractor(cfg.APIKey.Sources)
	if err != nil {
		return nil, err
	}

	orchestrator, err := gateway.NewOrchestrator(extractor, tokens, store, registry, logger)
	if err != nil {
		return nil, err
	}

	promRegistry := prometheus.NewRegistry()
	cache.GetCacheMetrics().MustRegister(promRegistry)
	okapi.GetClientMetrics().MustRegister(promRegistry)

	app := &application{
		cfg:             cfg,
		logger:          logger,
		tokens:          tokens,
		store:           store,
		registry:        registry,
		orchestrator:    orchestrator,
		metricsRegistry: promRegistry,
	}
	app.engine = app.buildRouter(extractor)

	return app, nil
}

// buildRouter registers middleware and routes.
func (app *application) buildRouter(extractor *apikey.Extractor) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog(app.logger))

	engine.GET("/admin/health", app.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		app.metricsRegistry, promhttp.HandlerOpts{})))

	// Validates an API key without touching the backend.
	engine.GET("/validate", app.handleValidate(extractor))
	engine.GET("/validate/:apiKeyPath", app.handleValidate(extractor))

	// Full pipeline example: authenticate and relay the backend version.
	engine.GET("/version", func(c *gin.Context) {
		app.orchestrator.Handle(c, nil, nil, relayVersion)
	})

	return engine
}

// handleHealth reports the gateway process itself as healthy.
func (app *application) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// handleValidate extracts and decodes the API key, reporting only
// whether it is well formed.
func (app *application) handleValidate(extractor *apikey.Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := extractor.Extract(c)
		if err != nil {
			c.String(http.StatusUnauthorized, "Access Denied")
			return
		}
		if _, err := apikey.Parse(key); err != nil {
			c.String(http.StatusUnauthorized, err.Error())
			return
		}
		c.String(http.StatusOK, "{}")
	}
}

// relayVersion relays the backend's version endpoint.
func relayVersion(ctx context.Context, client *okapi.Client, _ map[string]string) (*okapi.Response, error) {
	return client.Get(ctx, "/_/version", nil)
}

// reload applies a changed configuration. Only the token cache is
// rebuilt at runtime; everything else requires a restart.
func (app *application) reload(cfg *config.Config) {
	if err := app.tokens.Reinitialize(
		cfg.Cache.TokenTTL.Duration(),
		cfg.Cache.NullTokenTTL.Duration(),
		cfg.Cache.Capacity,
	); err != nil {
		app.logger.Error("failed to re-initialize token cache", observability.Error(err))
	}
}
