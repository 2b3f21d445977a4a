package okapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/folio-org/edge-common-sub000/internal/observability"
)

// Backend wire constants.
const (
	// HeaderTenant scopes a backend call to one tenant.
	HeaderTenant = "X-Okapi-Tenant"
	// HeaderToken carries the session token.
	HeaderToken = "X-Okapi-Token"

	loginPath  = "/authn/login"
	healthPath = "/_/version"
)

// okapiTracerName is the OpenTelemetry tracer name for backend calls.
const okapiTracerName = "edge/okapi"

// Response is a fully buffered backend response ready to be relayed to
// the caller.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client is a per-tenant backend client. The session token is mutable
// and attached to every relayed call until replaced.
type Client struct {
	baseURL string
	tenant  string
	timeout time.Duration
	http    *http.Client
	logger  observability.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a backend client for one tenant.
func NewClient(baseURL, tenant string, timeout time.Duration, logger observability.Logger) *Client {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tenant:  tenant,
		timeout: timeout,
		http:    &http.Client{},
		logger:  logger.With(observability.String("tenant", tenant)),
	}
}

// Tenant returns the tenant this client is scoped to.
func (c *Client) Tenant() string {
	return c.tenant
}

// SetToken replaces the client's current session token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the client's current session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// loginRequest is the JSON credential payload for the login endpoint.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges institutional credentials for a session token. A 201
// response yields the token from the response header, which is stored on
// the client and returned. Any other status is an ordinary
// authentication failure: the call completes with an empty token and a
// nil error, which callers must treat as a distinct outcome from a
// transport or timeout failure.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := otel.Tracer(okapiTracerName).Start(ctx, "okapi.Login",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("okapi.tenant", c.tenant)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		GetClientMetrics().requestDuration.WithLabelValues(
			c.tenant, "login",
		).Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("failed to encode login payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain")
	req.Header.Set(HeaderTenant, c.tenant)

	resp, err := c.http.Do(req)
	if err != nil {
		GetClientMetrics().loginTotal.WithLabelValues(c.tenant, "error").Inc()
		span.SetAttributes(attribute.Bool("okapi.login.success", false))
		return "", err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusCreated {
		GetClientMetrics().loginTotal.WithLabelValues(c.tenant, "denied").Inc()
		span.SetAttributes(attribute.Bool("okapi.login.success", false))
		c.logger.Info("backend login failed",
			observability.Int("status", resp.StatusCode))
		return "", nil
	}

	token := resp.Header.Get(HeaderToken)
	c.SetToken(token)

	GetClientMetrics().loginTotal.WithLabelValues(c.tenant, "success").Inc()
	span.SetAttributes(attribute.Bool("okapi.login.success", true))
	c.logger.Debug("backend login succeeded")

	return token, nil
}

// Get issues a GET against the backend and buffers the response.
func (c *Client) Get(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, headers)
}

// Post issues a POST against the backend and buffers the response.
func (c *Client) Post(ctx context.Context, path string, body []byte, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, headers)
}

// Healthy probes the backend health path. Any failure, transport or
// otherwise, reports unhealthy; this never returns an error.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, span := otel.Tracer(okapiTracerName).Start(ctx, "okapi.Healthy",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("okapi.tenant", c.tenant)),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("okapi.healthy", false))
		return false
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	healthy := resp.StatusCode == http.StatusOK
	span.SetAttributes(attribute.Bool("okapi.healthy", healthy))
	return healthy
}

// do issues a request with the tenant and token headers attached and the
// response body fully buffered. Response bodies are never streamed.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	body []byte,
	headers map[string]string,
) (*Response, error) {
	ctx, span := otel.Tracer(okapiTracerName).Start(ctx, "okapi."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("okapi.tenant", c.tenant),
			attribute.String("okapi.path", path),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		GetClientMetrics().requestDuration.WithLabelValues(
			c.tenant, strings.ToLower(method),
		).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set(HeaderTenant, c.tenant)
	if token := c.Token(); token != "" {
		req.Header.Set(HeaderToken, token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("okapi.status", resp.StatusCode))

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        buf,
	}, nil
}
