package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env != "development" {
		t.Fatalf("expected development env, got %s", cfg.Env)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.DataBackend != "memory" {
		t.Fatalf("expected memory backend, got %s", cfg.DataBackend)
	}
	if cfg.SessionCookieTTL != 30*24*time.Hour {
		t.Fatalf("unexpected session cookie ttl %s", cfg.SessionCookieTTL)
	}
	if cfg.AIEnabled() {
		t.Fatalf("expected AI disabled without a key")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("PIPELINE_SCHEDULE", "*/5 * * * *")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env != "production" {
		t.Fatalf("expected production env, got %s", cfg.Env)
	}
	if cfg.HTTPPort != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
	}
	if !cfg.AIEnabled() {
		t.Fatalf("expected AI enabled with a key")
	}
	if cfg.PipelineSchedule != "*/5 * * * *" {
		t.Fatalf("unexpected schedule %s", cfg.PipelineSchedule)
	}
}

func TestLoadPostgresRequiresURL(t *testing.T) {
	t.Setenv("DATA_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for postgres backend without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/qnahub")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DatabaseDriver != "pgx" {
		t.Fatalf("expected pgx driver default, got %s", cfg.DatabaseDriver)
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	t.Setenv("DATA_BACKEND", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "HTTP_PORT=7070\nDATA_BACKEND=memory\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env failed: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	defer os.Chdir(wd)

	// godotenv never overrides an already-exported variable, and the values
	// it sets stick in the process environment afterwards.
	os.Unsetenv("HTTP_PORT")
	t.Cleanup(func() { os.Unsetenv("HTTP_PORT"); os.Unsetenv("DATA_BACKEND") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != 7070 {
		t.Fatalf("expected port 7070 from .env, got %d", cfg.HTTPPort)
	}
}
