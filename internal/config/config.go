// Package config provides configuration types and loading for the edge gateway.
package config

import (
	"time"
)

// Default tunable values.
const (
	DefaultListen         = ":8081"
	DefaultTokenCacheTTL  = time.Hour
	DefaultNullTokenTTL   = 30 * time.Second
	DefaultCacheCapacity  = 100
	DefaultRequestTimeout = 10 * time.Second
	DefaultAPIKeySources  = "HEADER,PARAM,PATH"
	DefaultSaltLen        = 17
)

// Config is the top-level gateway configuration.
type Config struct {
	// Listen is the address the gateway listens on.
	Listen string `yaml:"listen" json:"listen"`

	// Okapi configures the backend the gateway authenticates against.
	Okapi OkapiConfig `yaml:"okapi" json:"okapi"`

	// Cache configures the session token cache.
	Cache CacheConfig `yaml:"cache" json:"cache"`

	// APIKey configures API key extraction and generation.
	APIKey APIKeyConfig `yaml:"apiKey" json:"apiKey"`

	// SecureStore configures institutional credential resolution.
	SecureStore SecureStoreConfig `yaml:"secureStore" json:"secureStore"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// OkapiConfig holds backend connection settings.
type OkapiConfig struct {
	// URL is the backend base URL, e.g. http://okapi:9130.
	URL string `yaml:"url" json:"url"`

	// RequestTimeout bounds every backend call, including login.
	RequestTimeout Duration `yaml:"requestTimeout,omitempty" json:"requestTimeout,omitempty"`
}

// CacheConfig holds token cache settings.
type CacheConfig struct {
	// TokenTTL is the time-to-live for cached session tokens.
	TokenTTL Duration `yaml:"tokenTTL,omitempty" json:"tokenTTL,omitempty"`

	// NullTokenTTL is the (much shorter) time-to-live for negative entries.
	NullTokenTTL Duration `yaml:"nullTokenTTL,omitempty" json:"nullTokenTTL,omitempty"`

	// Capacity is the entry count that triggers eviction on writes.
	Capacity int `yaml:"capacity,omitempty" json:"capacity,omitempty"`
}

// APIKeyConfig holds API key handling settings.
type APIKeyConfig struct {
	// Sources is the ordered, comma-separated list of extraction sources,
	// drawn from HEADER, PARAM and PATH.
	Sources string `yaml:"sources,omitempty" json:"sources,omitempty"`

	// SaltLen is the generated salt length in characters.
	SaltLen int `yaml:"saltLen,omitempty" json:"saltLen,omitempty"`
}

// SecureStoreConfig selects and configures the credential store backend.
type SecureStoreConfig struct {
	// Type selects the store backend: "ephemeral", "vault" or "aws_ssm".
	// Unrecognized or empty values fall back to "ephemeral".
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// Tenants seeds the ephemeral store.
	Tenants []TenantCredential `yaml:"tenants,omitempty" json:"tenants,omitempty"`

	// Vault configures the Vault-backed store.
	Vault *VaultStoreConfig `yaml:"vault,omitempty" json:"vault,omitempty"`

	// AWS configures the AWS parameter-store-backed store.
	AWS *AWSStoreConfig `yaml:"aws,omitempty" json:"aws,omitempty"`
}

// TenantCredential seeds one tenant's institutional user in the ephemeral store.
type TenantCredential struct {
	// Tenant is the tenant identifier.
	Tenant string `yaml:"tenant" json:"tenant"`

	// Credentials is a "username,password" pair.
	Credentials string `yaml:"credentials" json:"credentials"`
}

// VaultStoreConfig holds Vault connection settings.
type VaultStoreConfig struct {
	// Address is the Vault server address.
	Address string `yaml:"address" json:"address"`

	// Token is the Vault token used for authentication.
	Token string `yaml:"token,omitempty" json:"token,omitempty"`

	// MountPath is the KV mount point, defaulting to "secret".
	MountPath string `yaml:"mountPath,omitempty" json:"mountPath,omitempty"`

	// Timeout bounds Vault requests.
	Timeout Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// AWSStoreConfig holds AWS Systems Manager parameter store settings.
type AWSStoreConfig struct {
	// Region is the AWS region.
	Region string `yaml:"region" json:"region"`

	// Endpoint overrides the SSM endpoint, mainly for local testing.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// SecureStore type names.
const (
	StoreTypeEphemeral = "ephemeral"
	StoreTypeVault     = "vault"
	StoreTypeAWSSSM    = "aws_ssm"
)

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Listen: DefaultListen,
		Okapi: OkapiConfig{
			RequestTimeout: Duration(DefaultRequestTimeout),
		},
		Cache: CacheConfig{
			TokenTTL:     Duration(DefaultTokenCacheTTL),
			NullTokenTTL: Duration(DefaultNullTokenTTL),
			Capacity:     DefaultCacheCapacity,
		},
		APIKey: APIKeyConfig{
			Sources: DefaultAPIKeySources,
			SaltLen: DefaultSaltLen,
		},
		SecureStore: SecureStoreConfig{
			Type: StoreTypeEphemeral,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Validate checks the configuration, returning a ConfigError on the first
// invalid field.
func (c *Config) Validate() error {
	if c.Okapi.URL == "" {
		return NewConfigError("okapi.url", "backend URL is required")
	}
	if c.Okapi.RequestTimeout <= 0 {
		return NewConfigError("okapi.requestTimeout", "request timeout must be positive")
	}
	if c.Cache.TokenTTL <= 0 {
		return NewConfigError("cache.tokenTTL", "token TTL must be positive")
	}
	if c.Cache.NullTokenTTL <= 0 {
		return NewConfigError("cache.nullTokenTTL", "null token TTL must be positive")
	}
	if c.Cache.Capacity <= 0 {
		return NewConfigError("cache.capacity", "capacity must be positive")
	}
	if c.APIKey.Sources == "" {
		return NewConfigError("apiKey.sources", "at least one extraction source is required")
	}
	if c.APIKey.SaltLen <= 0 {
		return NewConfigError("apiKey.saltLen", "salt length must be positive")
	}
	if c.SecureStore.Type == StoreTypeVault {
		if c.SecureStore.Vault == nil || c.SecureStore.Vault.Address == "" {
			return NewConfigError("secureStore.vault.address", "vault address is required")
		}
	}
	if c.SecureStore.Type == StoreTypeAWSSSM {
		if c.SecureStore.AWS == nil || c.SecureStore.AWS.Region == "" {
			return NewConfigError("secureStore.aws.region", "aws region is required")
		}
	}
	return nil
}
