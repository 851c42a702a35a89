package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

const (
	defaultAppEnv        = "dev"
	defaultDBPath        = "./dev.db"
	defaultPort          = "8080"
	defaultSessionTTL    = 12 * time.Hour
	defaultMaxUploadMB   = 500
	defaultResetSchedule = "0 0 1 * *"
	defaultCurrency      = "BRL"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv        string
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	SessionTTL    time.Duration
	DBPath        string
	Port          string
	MaxUploadMB   int64
	// UsageResetSchedule is a five-field cron expression.
	UsageResetSchedule string
	Currency           string
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.AppEnv == "" || c.AppEnv == "dev" || c.AppEnv == "development"
}

// MaxUploadBytes returns the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: read .env: %v", err)
	}

	cfg := Config{
		AppEnv:             os.Getenv("APP_ENV"),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		DBPath:             os.Getenv("DB_PATH"),
		Port:               os.Getenv("PORT"),
		UsageResetSchedule: os.Getenv("USAGE_RESET_SCHEDULE"),
		Currency:           os.Getenv("CURRENCY"),
		SessionTTL:         durationEnv("SESSION_TTL", defaultSessionTTL),
		MaxUploadMB:        intEnv("MAX_UPLOAD_MB", defaultMaxUploadMB),
	}

	if cfg.AppEnv == "" {
		cfg.AppEnv = defaultAppEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.UsageResetSchedule == "" {
		cfg.UsageResetSchedule = defaultResetSchedule
	}
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}

	if cfg.AdminEmail == "" {
		log.Print("warning: ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		log.Print("warning: ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}

	return cfg
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("warning: invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}

func intEnv(key string, def int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("warning: invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}
