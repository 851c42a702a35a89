package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// unset clears key for the test and restores it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv %s: %v", key, err)
	}
}

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	unset(t, "A")
	unset(t, "B")
	unset(t, "C")

	path := writeDotEnv(t, `
# comment

A=one
export B=two
C="three"
`)

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("A"); got != "one" {
		t.Fatalf("A=%q, want %q", got, "one")
	}
	if got := os.Getenv("B"); got != "two" {
		t.Fatalf("B=%q, want %q", got, "two")
	}
	if got := os.Getenv("C"); got != "three" {
		t.Fatalf("C=%q, want %q", got, "three")
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")

	path := writeDotEnv(t, "KEEP=fromfile\n")
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("KEEP"); got != "already" {
		t.Fatalf("KEEP=%q, want %q", got, "already")
	}
}

func TestLoadDotEnv_StripsSingleQuotes(t *testing.T) {
	unset(t, "Q")

	path := writeDotEnv(t, "Q='hello world'\n")
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("Q"); got != "hello world" {
		t.Fatalf("Q=%q, want %q", got, "hello world")
	}
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"APP_ENV", "DB_PATH", "PORT", "SESSION_TTL", "MAX_UPLOAD_MB", "USAGE_RESET_SCHEDULE", "CURRENCY"} {
		unset(t, key)
	}

	cfg := Load()

	if cfg.DBPath != "./dev.db" || cfg.Port != "8080" {
		t.Fatalf("DBPath=%q Port=%q", cfg.DBPath, cfg.Port)
	}
	if !cfg.IsDev() {
		t.Fatalf("AppEnv=%q, want dev", cfg.AppEnv)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("SessionTTL=%v, want 12h", cfg.SessionTTL)
	}
	if cfg.MaxUploadBytes() != 500<<20 {
		t.Fatalf("MaxUploadBytes=%d", cfg.MaxUploadBytes())
	}
	if cfg.UsageResetSchedule != "0 0 1 * *" || cfg.Currency != "BRL" {
		t.Fatalf("UsageResetSchedule=%q Currency=%q", cfg.UsageResetSchedule, cfg.Currency)
	}
}

func TestLoad_ReadsOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MAX_UPLOAD_MB", "50")

	cfg := Load()

	if cfg.IsDev() {
		t.Fatal("production config reported as dev")
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("SessionTTL=%v, want 30m", cfg.SessionTTL)
	}
	if cfg.MaxUploadMB != 50 {
		t.Fatalf("MaxUploadMB=%d, want 50", cfg.MaxUploadMB)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("MAX_UPLOAD_MB", "-3")

	cfg := Load()

	if cfg.SessionTTL != 12*time.Hour || cfg.MaxUploadMB != 500 {
		t.Fatalf("SessionTTL=%v MaxUploadMB=%d", cfg.SessionTTL, cfg.MaxUploadMB)
	}
}
