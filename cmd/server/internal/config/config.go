// Package config loads and validates the server configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Security SecurityConfig
	Audit    AuditConfig
	Seed     SeedConfig
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Env  string // dev, staging, production
	Port string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// MongoConfig holds document store settings.
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds cache backend settings. An empty Addr selects the
// in-process cache instead of Redis.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	UseTLS   bool
}

// CacheConfig holds cache behaviour settings.
type CacheConfig struct {
	TTL time.Duration
}

// SecurityConfig holds token settings.
type SecurityConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
}

// AuditConfig holds the audit trail settings.
type AuditConfig struct {
	LogPath string
}

// SeedConfig points at an optional roadmap seed file loaded on startup.
type SeedConfig struct {
	File string
}

// LoadConfig reads the configuration from environment variables, applying
// defaults for everything but secrets.
func LoadConfig() (*Config, error) {
	ttlSeconds, err := getEnvInt("CACHE_TTL_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	expiryMinutes, err := getEnvInt("JWT_EXPIRY_MINUTES", 60)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Env:  getEnv("ENV", "dev"),
			Port: getEnv("PORT", "8000"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "roadmaps"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Username: getEnv("REDIS_USERNAME", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			UseTLS:   getEnvBool("REDIS_TLS", false),
		},
		Cache: CacheConfig{
			TTL: time.Duration(ttlSeconds) * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTExpiry: time.Duration(expiryMinutes) * time.Minute,
		},
		Audit: AuditConfig{
			LogPath: getEnv("AUDIT_LOG_PATH", "./audit/roadmap-api.log"),
		},
		Seed: SeedConfig{
			File: getEnv("SEED_FILE", ""),
		},
	}
	return cfg, nil
}

// ValidateConfig checks the configuration, collecting every problem into
// one error.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.Security.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	} else if len(cfg.Security.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 characters long")
	}

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid PORT value: %s (must be 1-65535)", cfg.Server.Port))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid LOG_LEVEL: %s (must be: debug, info, warn, error)", cfg.Log.Level))
	}

	validEnvs := map[string]bool{"dev": true, "development": true, "staging": true, "production": true}
	if !validEnvs[cfg.Server.Env] {
		errs = append(errs, fmt.Sprintf("invalid ENV: %s (must be: dev, development, staging, production)", cfg.Server.Env))
	}

	if cfg.Mongo.URI == "" {
		errs = append(errs, "MONGO_URI is required")
	}
	if cfg.Mongo.Database == "" {
		errs = append(errs, "MONGO_DB is required")
	}

	if cfg.Cache.TTL <= 0 {
		errs = append(errs, "CACHE_TTL_SECONDS must be positive")
	}
	if cfg.Security.JWTExpiry <= 0 {
		errs = append(errs, "JWT_EXPIRY_MINUTES must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetServerAddr returns the listen address.
func (c *Config) GetServerAddr() string {
	return ":" + c.Server.Port
}

// PrintConfig renders the configuration with secrets masked.
func (c *Config) PrintConfig() string {
	redis := c.Redis.Addr
	if redis == "" {
		redis = "<in-process cache>"
	}
	seed := c.Seed.File
	if seed == "" {
		seed = "<none>"
	}
	return fmt.Sprintf(`Configuration Loaded:
  Environment: %s
  Server Port: %s
  Logging:
    - Level: %s
  Mongo:
    - URI: %s
    - Database: %s
  Redis:
    - Addr: %s
    - TLS: %t
    - Password: %s
  Cache:
    - TTL: %s
  Security:
    - JWT Secret: %s
    - JWT Expiry: %s
  Audit:
    - Log Path: %s
  Seed:
    - File: %s`,
		c.Server.Env,
		c.Server.Port,
		c.Log.Level,
		maskMongoURI(c.Mongo.URI),
		c.Mongo.Database,
		redis,
		c.Redis.UseTLS,
		maskSecret(c.Redis.Password),
		c.Cache.TTL,
		maskSecret(c.Security.JWTSecret),
		c.Security.JWTExpiry,
		c.Audit.LogPath,
		seed,
	)
}

// getEnv returns the environment variable or the default when unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %q", key, value)
	}
	return n, nil
}

// getEnvBool parses a boolean environment variable; anything unparseable
// falls back to the default.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// maskSecret hides the middle of a sensitive value.
func maskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}

// maskMongoURI hides credentials embedded in a connection string.
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at == -1 {
		return uri
	}
	scheme := strings.Index(uri, "://")
	if scheme == -1 || scheme+3 > at {
		return uri
	}
	return uri[:scheme+3] + "***" + uri[at:]
}
