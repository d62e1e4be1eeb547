package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration for the given environment.
func ValidateConfig(cfg *Config, env Environment) error {
	var errs []ValidationError
	fail := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		fail("SERVER_PORT", "is required")
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DBPath == "" {
			fail("DB_PATH", "is required for the sqlite driver")
		}
	case "postgres":
		if cfg.DBHost == "" {
			fail("DB_HOST", "is required for the postgres driver")
		}
		if cfg.DBName == "" {
			fail("DB_NAME", "is required for the postgres driver")
		}
		if cfg.DBUser == "" {
			fail("DB_USER", "is required for the postgres driver")
		}
		if cfg.DBPassword == "" && (env == Production || env == CI) {
			fail("db_password", "is required for the postgres driver")
		}
	default:
		fail("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	switch {
	case cfg.Auth0Domain != "":
		if cfg.APIAudience == "" {
			fail("API_AUDIENCE", "is required when AUTH0_DOMAIN is set")
		}
		if cfg.JWKSCacheTTL <= 0 {
			fail("JWKS_CACHE_TTL", "must be positive")
		}
	case cfg.DevSigningSecret != "":
		if env == Production {
			fail("dev_signing_secret", "is not allowed in production, set AUTH0_DOMAIN")
		}
	default:
		fail("AUTH0_DOMAIN", "is required unless a development signing secret is configured")
	}

	if cfg.RateLimitWrites < 0 {
		fail("RATE_LIMIT_WRITES", "must not be negative")
	}
	if cfg.RateLimitWrites > 0 && cfg.RedisURL == "" {
		fail("REDIS_URL", "is required when RATE_LIMIT_WRITES is enabled")
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		fail("LOG_FORMAT", fmt.Sprintf("unsupported format %q", cfg.LogFormat))
	}

	if len(errs) == 0 {
		return nil
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
}
