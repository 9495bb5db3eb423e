package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session and draft storage backends.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Catalog API
	APIBaseURL        string
	APITimeout        time.Duration
	APIRateLimitRPS   float64
	APIRateLimitBurst int

	// Form behaviour
	UniqueCheckDebounce time.Duration

	// Session storage
	SessionBackend string
	SessionTTL     time.Duration

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Draft autosave
	DraftBackend string
	DraftDSN     string
	DraftTTL     time.Duration

	// Image uploads
	S3BucketName    string
	AWSRegion       string
	S3PublicBaseURL string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig reads an optional .env file, then the environment and secrets.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	env := GetEnvironment()
	cfg := &Config{Environment: env}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	// CI uses environment variables only
	if env != CI {
		loadSecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	var errs []error

	cfg.APIBaseURL = getEnv("API_BASE_URL", "http://localhost:8080")
	cfg.APITimeout = getDuration("API_TIMEOUT", 15*time.Second, &errs)
	cfg.APIRateLimitRPS = getFloat("API_RATE_LIMIT_RPS", 10, &errs)
	cfg.APIRateLimitBurst = getInt("API_RATE_LIMIT_BURST", 20, &errs)
	cfg.UniqueCheckDebounce = getDuration("UNIQUE_CHECK_DEBOUNCE", 500*time.Millisecond, &errs)

	cfg.SessionBackend = strings.ToLower(getEnv("SESSION_BACKEND", BackendMemory))
	cfg.SessionTTL = getDuration("SESSION_TTL", 24*time.Hour, &errs)

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getInt("REDIS_DB", 0, &errs)

	cfg.DraftBackend = strings.ToLower(getEnv("DRAFT_BACKEND", BackendNone))
	cfg.DraftDSN = os.Getenv("DRAFT_DSN")
	cfg.DraftTTL = getDuration("DRAFT_TTL", 24*time.Hour, &errs)
	if cfg.DraftBackend == BackendSQLite && cfg.DraftDSN == "" {
		cfg.DraftDSN = "recipeform-drafts.db"
	}

	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.S3PublicBaseURL = os.Getenv("S3_PUBLIC_BASE_URL")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = os.Getenv("LOG_FORMAT")

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}
	return nil
}

// loadSecrets fills sensitive values that were not set in the environment from
// files in the secrets directory.
func loadSecrets(cfg *Config) {
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}
	if cfg.DraftDSN == "" {
		cfg.DraftDSN = readSecret("draft_dsn")
	}
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

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func getInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func getFloat(key string, def float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

// UsesRedis reports whether any configured backend needs Redis.
func (c *Config) UsesRedis() bool {
	return c.SessionBackend == BackendRedis || c.DraftBackend == BackendRedis
}
