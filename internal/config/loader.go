package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML configuration file from the given path, applies defaults
// for unset fields, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, NewConfigError("path", "config file path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigError("path", "config file does not exist: "+path)
		}
		return nil, NewConfigErrorWithCause("path", "failed to stat config file", err)
	}
	if info.IsDir() {
		return nil, NewConfigError("path", "config path is a directory, not a file: "+path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, NewConfigErrorWithCause("path", "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewConfigErrorWithCause("yaml", "failed to parse config file", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides overlays well-known environment variables onto the
// configuration. Environment wins over the file for deployment-level settings.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EDGE_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("OKAPI_URL"); v != "" {
		cfg.Okapi.URL = v
	}
	if v := os.Getenv("SECURE_STORE_TYPE"); v != "" {
		cfg.SecureStore.Type = v
	}
	if v := os.Getenv("VAULT_ADDR"); v != "" {
		if cfg.SecureStore.Vault == nil {
			cfg.SecureStore.Vault = &VaultStoreConfig{}
		}
		cfg.SecureStore.Vault.Address = v
	}
	if v := os.Getenv("VAULT_TOKEN"); v != "" {
		if cfg.SecureStore.Vault == nil {
			cfg.SecureStore.Vault = &VaultStoreConfig{}
		}
		cfg.SecureStore.Vault.Token = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		if cfg.SecureStore.AWS == nil {
			cfg.SecureStore.AWS = &AWSStoreConfig{}
		}
		cfg.SecureStore.AWS.Region = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
