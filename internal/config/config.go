package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultListenAddr       = ":8080"
	defaultDatabaseURL      = "file:intakeflow.db?_pragma=foreign_keys(1)"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTTTL           = "12h"
	defaultNotifyBackend    = BackendMemory
	defaultNotifyBuffer     = "64"
	defaultSessionTTL       = "2h"
	defaultSweepInterval    = "5m"
	defaultStatsTimezone    = "UTC"
	defaultLogLevel         = "info"
	defaultMailFrom         = "no-reply@intakeflow.local"
	defaultMailFromName     = "Intake Alerts"
	defaultPublicBaseURL    = "http://localhost:8080"
	defaultEnforceMinBudget = "false"
)

// Notification backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	AppEnv      string
	ListenAddr  string
	DatabaseURL string
	LogLevel    string

	JWTSecret string
	JWTTTL    time.Duration

	NotifyBackend string
	NotifyBuffer  int
	RedisURL      string

	IntakeSessionTTL     time.Duration
	SessionSweepInterval time.Duration

	EnforceMinBudget bool
	StatsTimezone    string
	StatsLocation    *time.Location

	SendGridAPIKey string
	MailFrom       string
	MailFromName   string
	PublicBaseURL  string

	CORSAllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = strings.TrimSpace(getEnv("LISTEN_ADDR", defaultListenAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.NotifyBackend = strings.ToLower(strings.TrimSpace(getEnv("NOTIFY_BACKEND", defaultNotifyBackend)))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.StatsTimezone = strings.TrimSpace(getEnv("STATS_TIMEZONE", defaultStatsTimezone))
	cfg.SendGridAPIKey = strings.TrimSpace(os.Getenv("SENDGRID_API_KEY"))
	cfg.MailFrom = strings.TrimSpace(getEnv("MAIL_FROM", defaultMailFrom))
	cfg.MailFromName = strings.TrimSpace(getEnv("MAIL_FROM_NAME", defaultMailFromName))
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("PUBLIC_BASE_URL", defaultPublicBaseURL)), "/")
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	cfg.EnforceMinBudget = parseBoolEnv("SCORING_ENFORCE_MIN_BUDGET", defaultEnforceMinBudget)

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.IntakeSessionTTL, err = parseDurationEnv("INTAKE_SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}
	cfg.SessionSweepInterval, err = parseDurationEnv("INTAKE_SWEEP_INTERVAL", defaultSweepInterval)
	if err != nil {
		return nil, err
	}
	cfg.NotifyBuffer, err = parseIntEnv("NOTIFY_BUFFER", defaultNotifyBuffer)
	if err != nil {
		return nil, err
	}

	cfg.StatsLocation, err = time.LoadLocation(cfg.StatsTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_TIMEZONE value %q: %w", cfg.StatsTimezone, err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.IntakeSessionTTL <= 0 {
		return fmt.Errorf("INTAKE_SESSION_TTL must be > 0")
	}
	if cfg.SessionSweepInterval <= 0 {
		return fmt.Errorf("INTAKE_SWEEP_INTERVAL must be > 0")
	}
	if cfg.NotifyBuffer <= 0 {
		return fmt.Errorf("NOTIFY_BUFFER must be > 0")
	}

	switch cfg.NotifyBackend {
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when NOTIFY_BACKEND=redis")
		}
	case BackendPostgres:
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			return fmt.Errorf("NOTIFY_BACKEND=postgres requires a postgres DATABASE_URL")
		}
	default:
		return fmt.Errorf("NOTIFY_BACKEND must be one of: memory, redis, postgres")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.NotifyBackend == BackendMemory {
			return fmt.Errorf("in prod/release NOTIFY_BACKEND must be redis or postgres")
		}
	}

	return nil
}

// IsProdLike reports whether the config targets a production deployment.
func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
