// Package apikey implements the opaque API key credential external
// callers present to the edge gateway.
//
// A key is the base64url encoding of a compact JSON object carrying a
// per-identity salt, a tenant id and an institutional username. The key
// is self-contained and decodable, not cryptographically verifiable:
// possession of a well-formed key only identifies the caller, the actual
// authentication happens against the backend with the resolved
// institutional credentials.
//
// The package also extracts raw keys from incoming requests, trying a
// configured ordered list of sources (header, query parameter, path
// segment) and stopping at the first hit.
package apikey
