package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets every variable Load consults so tests start clean.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"JALDIKARO_PORT", "PORT", "JALDIKARO_ENV", "ENV", "GO_ENV",
		"DATABASE_URL", "REDIS_ADDR", "JWT_SECRET",
		"STRIPE_API_KEY", "STRIPE_WEBHOOK_SECRET", "STRIPE_SUCCESS_URL", "STRIPE_CANCEL_URL",
		"R2_BUCKET_NAME", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_ENDPOINT",
		"UPSTREAM_ORIGIN", "CACHE_MANIFEST_PATH", "RANKING_CONFIG_PATH",
		"PROVIDER_UPSTREAM_URL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "super-secret-value")

	cfg, errs := Load("")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Env != DefaultEnv {
		t.Errorf("Env = %q, want %q", cfg.Env, DefaultEnv)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "port: 9000\njwt_secret: file-secret-value\nredis_addr: file-redis:6379\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "9100")
	t.Setenv("REDIS_ADDR", "env-redis:6379")

	cfg, errs := Load(path)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want env override 9100", cfg.Port)
	}
	if cfg.RedisAddr != "env-redis:6379" {
		t.Errorf("RedisAddr = %q, want env override", cfg.RedisAddr)
	}
	if cfg.JWTSecret != "file-secret-value" {
		t.Errorf("JWTSecret = %q, want file value", cfg.JWTSecret)
	}
}

func TestLoadProviderUpstreamURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "super-secret-value")
	t.Setenv("PROVIDER_UPSTREAM_URL", "https://api.jaldikaro.example")

	cfg, errs := Load("")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg.ProviderUpstreamURL != "https://api.jaldikaro.example" {
		t.Errorf("ProviderUpstreamURL = %q, want env value", cfg.ProviderUpstreamURL)
	}
	if got := cfg.LogSummary()["provider_upstream_url"]; got != "https://api.jaldikaro.example" {
		t.Errorf("LogSummary provider_upstream_url = %q", got)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "super-secret-value")
	t.Setenv("PORT", "not-a-number")

	_, errs := Load("")
	found := false
	for _, err := range errs {
		if errors.Is(err, ErrInvalidPort) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ErrInvalidPort in %v", errs)
	}
}

func TestValidateMissingJWTSecret(t *testing.T) {
	cfg := &Config{}
	errs := cfg.Validate()
	found := false
	for _, err := range errs {
		if errors.Is(err, ErrMissingJWTSecret) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ErrMissingJWTSecret in %v", errs)
	}
}

func TestValidatePartialStripe(t *testing.T) {
	cfg := &Config{
		JWTSecret:    "super-secret-value",
		StripeAPIKey: "sk_test_abc123",
	}
	errs := cfg.Validate()
	want := []error{ErrMissingStripeWebhookSecret, ErrMissingStripeSuccessURL, ErrMissingStripeCancelURL}
	for _, wantErr := range want {
		found := false
		for _, err := range errs {
			if errors.Is(err, wantErr) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %v in %v", wantErr, errs)
		}
	}
}

func TestValidatePartialR2(t *testing.T) {
	cfg := &Config{
		JWTSecret:    "super-secret-value",
		R2BucketName: "jaldikaro-docs",
	}
	errs := cfg.Validate()
	for _, wantErr := range []error{ErrMissingR2AccessKeyID, ErrMissingR2SecretAccessKey, ErrMissingR2Endpoint} {
		found := false
		for _, err := range errs {
			if errors.Is(err, wantErr) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %v in %v", wantErr, errs)
		}
	}
}

func TestValidateGateway(t *testing.T) {
	cfg := &Config{JWTSecret: "super-secret-value"}
	errs := cfg.ValidateGateway()
	if len(errs) != 1 || !errors.Is(errs[0], ErrMissingUpstreamOrigin) {
		t.Errorf("ValidateGateway() = %v, want [ErrMissingUpstreamOrigin]", errs)
	}

	cfg.UpstreamOrigin = "https://app.jaldikaro.com"
	if errs := cfg.ValidateGateway(); len(errs) != 0 {
		t.Errorf("ValidateGateway() = %v, want no errors", errs)
	}
}

func TestLogSummaryMasksSecrets(t *testing.T) {
	cfg := &Config{
		Port:              8080,
		Env:               "production",
		DatabaseURL:       "postgres://jaldikaro:hunter2long@db:5432/jaldikaro",
		JWTSecret:         "super-secret-value",
		StripeAPIKey:      "sk_live_abcdefghij",
		R2SecretAccessKey: "r2secretkey12345",
	}
	summary := cfg.LogSummary()

	if summary["database_url"] != "postgres://jaldikaro:****@db:5432/jaldikaro" {
		t.Errorf("database_url = %q, password not masked", summary["database_url"])
	}
	if summary["jwt_secret"] != "supe****" {
		t.Errorf("jwt_secret = %q, want masked", summary["jwt_secret"])
	}
	if summary["stripe_api_key"] != "sk_live_****" {
		t.Errorf("stripe_api_key = %q, want prefix-preserving mask", summary["stripe_api_key"])
	}
	if summary["r2_secret_access_key"] != "r2se****" {
		t.Errorf("r2_secret_access_key = %q, want masked", summary["r2_secret_access_key"])
	}
	if summary["redis_addr"] != "<not set>" {
		t.Errorf("redis_addr = %q, want <not set>", summary["redis_addr"])
	}
}
