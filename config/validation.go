package config

import (
	"fmt"
	"net/url"
	"slices"
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

// ValidationErrors collects every problem found in a configuration.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "\n")
}

var (
	sessionBackends = []string{BackendMemory, BackendRedis}
	draftBackends   = []string{BackendNone, BackendRedis, BackendSQLite, BackendPostgres}
)

// ValidateConfig checks cfg and reports every problem at once.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("API_BASE_URL", "must be an absolute http(s) URL, got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout <= 0 {
		add("API_TIMEOUT", "must be positive")
	}
	if cfg.APIRateLimitRPS <= 0 {
		add("API_RATE_LIMIT_RPS", "must be positive")
	}
	if cfg.APIRateLimitBurst < 1 {
		add("API_RATE_LIMIT_BURST", "must be at least 1")
	}
	if cfg.UniqueCheckDebounce < 0 {
		add("UNIQUE_CHECK_DEBOUNCE", "must not be negative")
	}

	if !slices.Contains(sessionBackends, cfg.SessionBackend) {
		add("SESSION_BACKEND", "must be one of %s", strings.Join(sessionBackends, ", "))
	}
	if !slices.Contains(draftBackends, cfg.DraftBackend) {
		add("DRAFT_BACKEND", "must be one of %s", strings.Join(draftBackends, ", "))
	}
	if cfg.DraftBackend == BackendPostgres && cfg.DraftDSN == "" {
		add("DRAFT_DSN", "is required for the postgres draft backend")
	}

	if cfg.UsesRedis() {
		if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
			add("REDIS_URL", "REDIS_URL or REDIS_HOST and REDIS_PORT are required")
		}
		// In production the password must come from the environment or a secret
		if cfg.Environment == Production && cfg.RedisPassword == "" && cfg.RedisURL == "" {
			add("REDIS_PASSWORD", "redis_password secret is required")
		}
	}

	if cfg.S3PublicBaseURL != "" && cfg.S3BucketName == "" {
		add("S3_BUCKET_NAME", "is required when S3_PUBLIC_BASE_URL is set")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
