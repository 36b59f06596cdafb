package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultImage is the placeholder avatar used for users and movie artwork.
const DefaultImage = "https://www.gravatar.com/avatar/000?d=mp"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              5000,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Database: DatabaseConfig{
			Path: "./data/moviecatalog.db",
		},
		Security: SecurityConfig{
			TokenTTL:      24 * time.Hour,
			TokenIssuer:   "moviecatalog",
			TokenAudience: "moviecatalog-api",
			BcryptCost:    10,
		},
		Catalog: CatalogConfig{
			PageSize:         2,
			RandomSampleSize: 8,
			ImportEnabled:    false,
		},
		Plex: PlexConfig{
			Enabled:    false,
			LibraryKey: 1,
			Category:   "Plex",
			Language:   "English",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing priority.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are keys that may arrive as comma-separated env strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"server_host":         "server.host",
	"port":                "server.port",
	"read_timeout":        "server.read_timeout",
	"write_timeout":       "server.write_timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	"database_path": "database.path",

	"jwt_secret":     "security.jwt_secret",
	"token_ttl":      "security.token_ttl",
	"token_issuer":   "security.token_issuer",
	"token_audience": "security.token_audience",
	"bcrypt_cost":    "security.bcrypt_cost",

	"page_size":          "catalog.page_size",
	"random_sample_size": "catalog.random_sample_size",
	"import_enabled":     "catalog.import_enabled",

	"plex_enabled":     "plex.enabled",
	"plex_url":         "plex.url",
	"plex_token":       "plex.token",
	"plex_library_key": "plex.library_key",
	"plex_category":    "plex.category",
	"plex_language":    "plex.language",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps a known environment variable to its koanf path.
// Returning "" makes koanf skip the variable.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
