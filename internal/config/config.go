// Package config provides configuration loading and validation for the API
// server and the caching gateway. It uses koanf to merge environment
// variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the Jaldikaro services.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database. Optional: when empty, bookings are kept in memory.
	DatabaseURL string `koanf:"database_url"`

	// Redis. Optional: when empty, cache entries are kept in memory.
	RedisAddr string `koanf:"redis_addr"`

	// JWT Authentication (admin dashboard). JWTSecretPrevious is set only
	// during a secret rotation window so existing sessions stay valid.
	JWTSecret         string `koanf:"jwt_secret"`
	JWTSecretPrevious string `koanf:"jwt_secret_previous"`

	// Admin dashboard login. Optional: when unset, /admin/login responds 503.
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	// Stripe
	StripeAPIKey        string `koanf:"stripe_api_key"`
	StripeWebhookSecret string `koanf:"stripe_webhook_secret"`
	StripeSuccessURL    string `koanf:"stripe_success_url"`
	StripeCancelURL     string `koanf:"stripe_cancel_url"`

	// R2 (Cloudflare Object Storage) for provider application documents
	R2BucketName      string `koanf:"r2_bucket_name"`
	R2AccessKeyID     string `koanf:"r2_access_key_id"`
	R2SecretAccessKey string `koanf:"r2_secret_access_key"`
	R2Endpoint        string `koanf:"r2_endpoint"`

	// CORS. Comma-separated list of allowed browser origins.
	// Empty disables cross-origin requests entirely.
	AllowedOrigins string `koanf:"allowed_origins"`

	// Tracing. When set, OTLP spans are exported to this endpoint over HTTP.
	// Empty leaves tracing disabled.
	OTLPEndpoint string `koanf:"otlp_endpoint"`

	// Gateway
	UpstreamOrigin    string `koanf:"upstream_origin"`    // origin fronted by the caching gateway
	CacheManifestPath string `koanf:"cache_manifest_path"` // optional JSON manifest override

	// Ranking
	RankingConfigPath string `koanf:"ranking_config_path"` // optional weight calibration file

	// Providers. When set, the API seeds its provider listing from this
	// upstream table endpoint at startup, falling back to the demo list
	// if the upstream cannot be reached.
	ProviderUpstreamURL string `koanf:"provider_upstream_url"`
}

// Configuration validation errors.
var (
	ErrMissingJWTSecret           = errors.New("JWT_SECRET is required")
	ErrMissingStripeAPIKey        = errors.New("STRIPE_API_KEY is required")
	ErrMissingStripeWebhookSecret = errors.New("STRIPE_WEBHOOK_SECRET is required")
	ErrMissingStripeSuccessURL    = errors.New("STRIPE_SUCCESS_URL is required")
	ErrMissingStripeCancelURL     = errors.New("STRIPE_CANCEL_URL is required")
	ErrMissingR2BucketName        = errors.New("R2_BUCKET_NAME is required")
	ErrMissingR2AccessKeyID       = errors.New("R2_ACCESS_KEY_ID is required")
	ErrMissingR2SecretAccessKey   = errors.New("R2_SECRET_ACCESS_KEY is required")
	ErrMissingR2Endpoint          = errors.New("R2_ENDPOINT is required")
	ErrMissingUpstreamOrigin      = errors.New("UPSTREAM_ORIGIN is required for the gateway")
	ErrInvalidPort                = errors.New("PORT must be a valid integer")
)

// Default values for non-secret configuration.
const (
	DefaultPort = 8080
	DefaultEnv  = "development"
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	// Parse port from env, collecting error if invalid.
	// Try JALDIKARO_PORT first, then PORT.
	port, portErr := getEnvIntOrDefaultMulti([]string{"JALDIKARO_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	// Build config struct, with env vars taking precedence over file values
	cfg := &Config{
		Port:                port,
		Env:                 getEnvOrDefaultMulti([]string{"JALDIKARO_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		DatabaseURL:         getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisAddr:           getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		JWTSecret:           getEnvOrKoanf("JWT_SECRET", k, "jwt_secret"),
		JWTSecretPrevious:   getEnvOrKoanf("JWT_SECRET_PREVIOUS", k, "jwt_secret_previous"),
		AdminUsername:       getEnvOrKoanf("ADMIN_USERNAME", k, "admin_username"),
		AdminPassword:       getEnvOrKoanf("ADMIN_PASSWORD", k, "admin_password"),
		StripeAPIKey:        getEnvOrKoanf("STRIPE_API_KEY", k, "stripe_api_key"),
		StripeWebhookSecret: getEnvOrKoanf("STRIPE_WEBHOOK_SECRET", k, "stripe_webhook_secret"),
		StripeSuccessURL:    getEnvOrKoanf("STRIPE_SUCCESS_URL", k, "stripe_success_url"),
		StripeCancelURL:     getEnvOrKoanf("STRIPE_CANCEL_URL", k, "stripe_cancel_url"),
		R2BucketName:        getEnvOrKoanf("R2_BUCKET_NAME", k, "r2_bucket_name"),
		R2AccessKeyID:       getEnvOrKoanf("R2_ACCESS_KEY_ID", k, "r2_access_key_id"),
		R2SecretAccessKey:   getEnvOrKoanf("R2_SECRET_ACCESS_KEY", k, "r2_secret_access_key"),
		R2Endpoint:          getEnvOrKoanf("R2_ENDPOINT", k, "r2_endpoint"),
		AllowedOrigins:      getEnvOrKoanf("ALLOWED_ORIGINS", k, "allowed_origins"),
		OTLPEndpoint:        getEnvOrKoanf("OTLP_ENDPOINT", k, "otlp_endpoint"),
		UpstreamOrigin:      getEnvOrKoanf("UPSTREAM_ORIGIN", k, "upstream_origin"),
		CacheManifestPath:   getEnvOrKoanf("CACHE_MANIFEST_PATH", k, "cache_manifest_path"),
		RankingConfigPath:   getEnvOrKoanf("RANKING_CONFIG_PATH", k, "ranking_config_path"),
		ProviderUpstreamURL: getEnvOrKoanf("PROVIDER_UPSTREAM_URL", k, "provider_upstream_url"),
	}

	// Validate and collect errors
	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first valid integer value found, otherwise the koanf value, or default.
// Returns an error if any environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}

	// Stripe configuration is optional. Only validate fields if any value is set:
	// cash and UPI bookings work without a payment processor.
	if c.StripeAPIKey != "" || c.StripeWebhookSecret != "" || c.StripeSuccessURL != "" || c.StripeCancelURL != "" {
		if c.StripeAPIKey == "" {
			errs = append(errs, ErrMissingStripeAPIKey)
		}
		if c.StripeWebhookSecret == "" {
			errs = append(errs, ErrMissingStripeWebhookSecret)
		}
		if c.StripeSuccessURL == "" {
			errs = append(errs, ErrMissingStripeSuccessURL)
		}
		if c.StripeCancelURL == "" {
			errs = append(errs, ErrMissingStripeCancelURL)
		}
	}

	// R2 configuration is optional. Only validate fields if any R2 value is set.
	if c.R2BucketName != "" || c.R2AccessKeyID != "" || c.R2SecretAccessKey != "" || c.R2Endpoint != "" {
		if c.R2BucketName == "" {
			errs = append(errs, ErrMissingR2BucketName)
		}
		if c.R2AccessKeyID == "" {
			errs = append(errs, ErrMissingR2AccessKeyID)
		}
		if c.R2SecretAccessKey == "" {
			errs = append(errs, ErrMissingR2SecretAccessKey)
		}
		if c.R2Endpoint == "" {
			errs = append(errs, ErrMissingR2Endpoint)
		}
	}

	return errs
}

// GetJWTSecrets returns the current and previous JWT secrets. The
// previous secret is empty unless a rotation is in progress.
func (c *Config) GetJWTSecrets() (current, previous string) {
	return c.JWTSecret, c.JWTSecretPrevious
}

// AllowedOriginList splits the comma-separated AllowedOrigins value.
// Returns nil when no origins are configured.
func (c *Config) AllowedOriginList() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ValidateGateway checks the additional values the caching gateway needs.
func (c *Config) ValidateGateway() []error {
	var errs []error
	if c.UpstreamOrigin == "" {
		errs = append(errs, ErrMissingUpstreamOrigin)
	}
	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                  fmt.Sprintf("%d", c.Port),
		"env":                   c.Env,
		"database_url":          maskDatabaseURL(c.DatabaseURL),
		"redis_addr":            valueOrNotSet(c.RedisAddr),
		"jwt_secret":            maskSecret(c.JWTSecret),
		"jwt_secret_previous":   maskSecret(c.JWTSecretPrevious),
		"admin_username":        valueOrNotSet(c.AdminUsername),
		"admin_password":        maskSecret(c.AdminPassword),
		"stripe_api_key":        maskStripeKey(c.StripeAPIKey),
		"stripe_webhook_secret": maskSecret(c.StripeWebhookSecret),
		"stripe_success_url":    valueOrNotSet(c.StripeSuccessURL),
		"stripe_cancel_url":     valueOrNotSet(c.StripeCancelURL),
		"r2_bucket_name":        valueOrNotSet(c.R2BucketName),
		"r2_access_key_id":      maskSecret(c.R2AccessKeyID),
		"r2_secret_access_key":  maskSecret(c.R2SecretAccessKey),
		"r2_endpoint":           valueOrNotSet(c.R2Endpoint),
		"allowed_origins":       valueOrNotSet(c.AllowedOrigins),
		"otlp_endpoint":         valueOrNotSet(c.OTLPEndpoint),
		"upstream_origin":       valueOrNotSet(c.UpstreamOrigin),
		"cache_manifest_path":   valueOrNotSet(c.CacheManifestPath),
		"ranking_config_path":   valueOrNotSet(c.RankingConfigPath),
		"provider_upstream_url": valueOrNotSet(c.ProviderUpstreamURL),
	}
}

func valueOrNotSet(s string) string {
	if s == "" {
		return "<not set>"
	}
	return s
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskStripeKey masks a Stripe API key, preserving the prefix (sk_live_, sk_test_, etc.)
func maskStripeKey(s string) string {
	if s == "" {
		return "<not set>"
	}

	// Stripe keys have format like sk_live_..., sk_test_..., pk_live_..., etc.
	parts := strings.SplitN(s, "_", 3)
	if len(parts) == 3 {
		return parts[0] + "_" + parts[1] + "_****"
	}

	// Fallback to generic masking
	return maskSecret(s)
}

// maskDatabaseURL masks the password in a database URL.
// Supports both postgres:// and postgresql:// schemes.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	// Look for password pattern: user:password@host
	// Simple approach: find :// and then mask between : and @
	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	// Reconstruct URL with masked password
	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
