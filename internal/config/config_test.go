package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/revivewell_test")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Errorf("expected default port 5000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.TokenTTLHours != 24 {
		t.Errorf("expected default token ttl 24h, got %d", cfg.TokenTTLHours)
	}
	if cfg.LLMModel == "" {
		t.Error("expected a default LLM model")
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Error("expected default CORS origins")
	}
}

func TestValidate_RequiresDatabaseURL(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLHours: 24}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without DATABASE_URL")
	}
}

func TestValidate_RequiresSecretOutsideDev(t *testing.T) {
	cfg := &Config{
		Env:           "production",
		DatabaseURL:   "postgres://localhost/revivewell",
		TokenTTLHours: 24,
		LLMAPIKey:     "key",
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without JWT_SECRET in production")
	}

	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DevAllowsMissingSecret(t *testing.T) {
	cfg := &Config{
		Env:           "development",
		DatabaseURL:   "postgres://localhost/revivewell",
		TokenTTLHours: 24,
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error in development: %v", err)
	}
}

func TestValidate_TokenTTL(t *testing.T) {
	cfg := &Config{
		Env:           "development",
		DatabaseURL:   "postgres://localhost/revivewell",
		TokenTTLHours: 0,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive token ttl")
	}
}
