// Package okapi provides the per-tenant HTTP client the edge gateway
// uses to talk to the backend: the login call that trades institutional
// credentials for a session token, generic GET/POST relays with a
// bounded timeout, and a health probe.
//
// One client exists per tenant, created lazily by the Registry and never
// evicted. A client holds the tenant's current session token and
// attaches it to every relayed call until it is replaced.
package okapi
