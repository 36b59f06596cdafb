// Package config loads the immutable process configuration. It is built once
// at startup and passed explicitly to every component that needs it.
package config

import (
	"net"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Plex     PlexConfig     `koanf:"plex"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// SecurityConfig holds token signing and password hashing settings.
type SecurityConfig struct {
	JWTSecret     string        `koanf:"jwt_secret"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	TokenIssuer   string        `koanf:"token_issuer"`
	TokenAudience string        `koanf:"token_audience"`
	BcryptCost    int           `koanf:"bcrypt_cost"`
}

// CatalogConfig fixes the deployment-wide query shape of the movie catalog.
type CatalogConfig struct {
	PageSize         int  `koanf:"page_size"`
	RandomSampleSize int  `koanf:"random_sample_size"`
	ImportEnabled    bool `koanf:"import_enabled"`
}

// PlexConfig points the Plex import source at one movie library.
type PlexConfig struct {
	Enabled    bool   `koanf:"enabled"`
	URL        string `koanf:"url"`
	Token      string `koanf:"token"`
	LibraryKey int    `koanf:"library_key"`
	Category   string `koanf:"category"`
	Language   string `koanf:"language"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
