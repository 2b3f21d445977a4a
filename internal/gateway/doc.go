// Package gateway ties the edge pieces together: it pulls the API key
// off an incoming request, decodes it into an identity, resolves the
// institutional password, obtains or reuses a cached backend session
// token, and hands a ready-to-use tenant client to the route's relay
// action.
//
// Every per-request failure is converted here into one of four
// caller-visible outcomes: access denied, bad request, request timed
// out, or internal server error. Nothing per-request propagates past
// this package.
package gateway
