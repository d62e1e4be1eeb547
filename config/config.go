package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string `toml:"server_host"`
	ServerPort string `toml:"server_port"`

	// Database configuration
	DBDriver   string `toml:"db_driver"`
	DBPath     string `toml:"db_path"`
	DBHost     string `toml:"db_host"`
	DBPort     string `toml:"db_port"`
	DBUser     string `toml:"db_user"`
	DBPassword string `toml:"-"`
	DBName     string `toml:"db_name"`
	DBSSLMode  string `toml:"db_ssl_mode"`
	DBReset    bool   `toml:"db_reset"`

	// Token verification
	Auth0Domain      string        `toml:"auth0_domain"`
	APIAudience      string        `toml:"api_audience"`
	JWKSCacheTTL     time.Duration `toml:"jwks_cache_ttl"`
	DevSigningSecret string        `toml:"-"`

	// Redis configuration
	RedisURL        string `toml:"redis_url"`
	RateLimitWrites int    `toml:"rate_limit_writes"`

	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		ServerHost:         "0.0.0.0",
		ServerPort:         "8080",
		DBDriver:           "sqlite",
		DBPath:             "drinks.db",
		DBHost:             "localhost",
		DBPort:             "5432",
		DBUser:             "postgres",
		DBName:             "coffeeshop",
		DBSSLMode:          "disable",
		APIAudience:        "coffeeshop",
		JWKSCacheTTL:       10 * time.Minute,
		CORSAllowedOrigins: []string{"*"},
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig builds a Config from defaults, an optional TOML file, environment
// variables and secrets, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	env := GetEnvironment()
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	// Load configuration based on environment
	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadCIConfig reads sensitive values from environment variables only.
func loadCIConfig(cfg *Config) error {
	if err := loadEnv(cfg); err != nil {
		return err
	}
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DevSigningSecret, "DEV_SIGNING_SECRET")
	return nil
}

// loadDevConfig lets environment variables win over secret files.
func loadDevConfig(cfg *Config) error {
	if err := loadEnv(cfg); err != nil {
		return err
	}
	cfg.DBPassword = firstNonEmpty(os.Getenv("DB_PASSWORD"), readSecret("db_password"))
	cfg.DevSigningSecret = firstNonEmpty(os.Getenv("DEV_SIGNING_SECRET"), readSecret("dev_signing_secret"))
	return nil
}

// loadProdConfig reads sensitive values from Docker secrets only.
func loadProdConfig(cfg *Config) error {
	if err := loadEnv(cfg); err != nil {
		return err
	}
	cfg.DBPassword = readSecret("db_password")
	cfg.DevSigningSecret = readSecret("dev_signing_secret")
	return nil
}

// loadEnv applies the non-sensitive environment variables.
func loadEnv(cfg *Config) error {
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSL_MODE")
	setString(&cfg.Auth0Domain, "AUTH0_DOMAIN")
	setString(&cfg.APIAudience, "API_AUDIENCE")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	if v := os.Getenv("DB_RESET"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DB_RESET: %w", err)
		}
		cfg.DBReset = b
	}
	if v := os.Getenv("RATE_LIMIT_WRITES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_WRITES: %w", err)
		}
		cfg.RateLimitWrites = n
	}
	if v := os.Getenv("JWKS_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWKS_CACHE_TTL: %w", err)
		}
		cfg.JWKSCacheTTL = d
	}
	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
