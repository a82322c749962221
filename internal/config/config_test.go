package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, lookupFrom(map[string]string{
		"DATABASE_URI": "postgres://localhost/crm",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.RunAddress != ":8080" {
		t.Fatalf("unexpected run address %q", cfg.RunAddress)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected token ttl %v", cfg.TokenTTL)
	}
	if cfg.UploadDir != "uploads" {
		t.Fatalf("unexpected upload dir %q", cfg.UploadDir)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if !cfg.SeedUsers {
		t.Fatal("seeding should default to enabled")
	}
}

func TestLoadRequiresDatabaseURI(t *testing.T) {
	if _, err := load(nil, lookupFrom(nil)); err == nil {
		t.Fatal("expected error without database URI")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := load(nil, lookupFrom(map[string]string{
		"DATABASE_URI": "postgres://localhost/crm",
		"RUN_ADDRESS":  ":9090",
		"TOKEN_TTL":    "1h",
		"CORS_ORIGINS": "https://crm.example.com, https://staging.example.com",
		"SEED_USERS":   "false",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.RunAddress != ":9090" {
		t.Fatalf("unexpected run address %q", cfg.RunAddress)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("unexpected token ttl %v", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://staging.example.com" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.SeedUsers {
		t.Fatal("seeding should be disabled")
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	cfg, err := load(
		[]string{"-a", ":7070", "-token-ttl", "15m"},
		lookupFrom(map[string]string{
			"DATABASE_URI": "postgres://localhost/crm",
			"RUN_ADDRESS":  ":9090",
		}),
	)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.RunAddress != ":7070" {
		t.Fatalf("flag should win over env, got %q", cfg.RunAddress)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("unexpected token ttl %v", cfg.TokenTTL)
	}
}

func TestLoadTokenSecretFile(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret")
	if err := os.WriteFile(secretPath, []byte("  file-secret \n"), 0o600); err != nil {
		t.Fatalf("write secret file: %v", err)
	}

	cfg, err := load(nil, lookupFrom(map[string]string{
		"DATABASE_URI":      "postgres://localhost/crm",
		"TOKEN_SECRET":      "env-secret",
		"TOKEN_SECRET_FILE": secretPath,
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.TokenSecret != "file-secret" {
		t.Fatalf("secret file should win, got %q", cfg.TokenSecret)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	if _, err := load([]string{"-token-ttl", "soon"}, lookupFrom(map[string]string{
		"DATABASE_URI": "postgres://localhost/crm",
	})); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}
