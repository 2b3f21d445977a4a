package apikey

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// ErrMalformedAPIKey is the sentinel for keys that fail to decode,
// checked with errors.Is.
var ErrMalformedAPIKey = errors.New("malformed api key")

// MalformedKeyError carries the human-readable cause of a decode failure.
type MalformedKeyError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *MalformedKeyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed api key: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed api key: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *MalformedKeyError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *MalformedKeyError) Is(target error) bool {
	if target == ErrMalformedAPIKey {
		return true
	}
	_, ok := target.(*MalformedKeyError)
	return ok
}

// Identity is the triple an API key decodes to. All three fields are
// required; the salt doubles as the identity's client id.
type Identity struct {
	Salt     string `json:"s"`
	TenantID string `json:"t"`
	Username string `json:"u"`
}

// Salt generation parameters. The default length gives roughly 100 bits
// of entropy over the 62-symbol alphabet.
const (
	DefaultSaltLen = 17

	saltAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateSalt returns a cryptographically secure random alphanumeric
// string of length n.
func GenerateSalt(n int) (string, error) {
	if n <= 0 {
		n = DefaultSaltLen
	}
	max := big.NewInt(int64(len(saltAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate salt: %w", err)
		}
		buf[i] = saltAlphabet[idx.Int64()]
	}
	return string(buf), nil
}

// Generate encodes an identity into an opaque API key string.
func Generate(id Identity) (string, error) {
	if err := id.validate(); err != nil {
		return "", err
	}
	payload, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("failed to encode api key payload: %w", err)
	}
	return base64.URLEncoding.EncodeToString(payload), nil
}

// Parse decodes an opaque API key string back into an identity. Any
// failure, including a structurally valid payload with a missing field,
// is reported as a malformed key.
func Parse(key string) (Identity, error) {
	raw, err := base64.URLEncoding.DecodeString(key)
	if err != nil {
		return Identity{}, &MalformedKeyError{Message: "invalid base64", Cause: err}
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return Identity{}, &MalformedKeyError{Message: "invalid payload", Cause: err}
	}

	if err := id.validate(); err != nil {
		return Identity{}, err
	}

	return id, nil
}

// validate rejects identities with any empty field.
func (id Identity) validate() error {
	switch {
	case id.Salt == "":
		return &MalformedKeyError{Message: "missing salt"}
	case id.TenantID == "":
		return &MalformedKeyError{Message: "missing tenant"}
	case id.Username == "":
		return &MalformedKeyError{Message: "missing username"}
	}
	return nil
}
