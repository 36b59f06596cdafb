package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if p := c.Database.Path; p == ":memory:" || strings.HasPrefix(p, "file::memory:") || strings.Contains(p, "mode=memory") {
		return fmt.Errorf("DATABASE_PATH must be a file, in-memory databases are not supported")
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validatePlex(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitRequests < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Server.RateLimitRequests)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Server.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(s.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if s.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %v", s.TokenTTL)
	}
	if s.TokenIssuer == "" || s.TokenAudience == "" {
		return fmt.Errorf("TOKEN_ISSUER and TOKEN_AUDIENCE must not be empty")
	}
	if s.BcryptCost < bcrypt.MinCost || s.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, s.BcryptCost)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.RandomSampleSize < 1 {
		return fmt.Errorf("RANDOM_SAMPLE_SIZE must be positive, got %d", c.Catalog.RandomSampleSize)
	}
	return nil
}

// validatePlex only applies when the Plex import source is enabled.
func (c *Config) validatePlex() error {
	if !c.Plex.Enabled {
		return nil
	}
	if c.Plex.URL == "" {
		return fmt.Errorf("PLEX_URL is required when PLEX_ENABLED=true")
	}
	if !strings.HasPrefix(c.Plex.URL, "http://") && !strings.HasPrefix(c.Plex.URL, "https://") {
		return fmt.Errorf("PLEX_URL must start with http:// or https://")
	}
	if c.Plex.Token == "" {
		return fmt.Errorf("PLEX_TOKEN is required when PLEX_ENABLED=true")
	}
	if c.Plex.LibraryKey < 1 {
		return fmt.Errorf("PLEX_LIBRARY_KEY must be positive, got %d", c.Plex.LibraryKey)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
