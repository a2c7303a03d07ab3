package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, BackendMemory, cfg.NotifyBackend)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 2*time.Hour, cfg.IntakeSessionTTL)
	assert.Equal(t, 64, cfg.NotifyBuffer)
	assert.Equal(t, time.UTC, cfg.StatsLocation)
	assert.False(t, cfg.EnforceMinBudget)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("NOTIFY_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SCORING_ENFORCE_MIN_BUDGET", "yes")
	t.Setenv("STATS_TIMEZONE", "UTC")
	t.Setenv("PUBLIC_BASE_URL", "https://intake.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("INTAKE_SESSION_TTL", "45m")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.NotifyBackend)
	assert.True(t, cfg.EnforceMinBudget)
	assert.Equal(t, "https://intake.example.com", cfg.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 45*time.Minute, cfg.IntakeSessionTTL)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad ttl":             {"JWT_TTL": "soon"},
		"zero session ttl":    {"INTAKE_SESSION_TTL": "0s"},
		"unknown backend":     {"NOTIFY_BACKEND": "kafka"},
		"redis without url":   {"NOTIFY_BACKEND": "redis", "REDIS_URL": ""},
		"postgres on sqlite":  {"NOTIFY_BACKEND": "postgres", "DATABASE_URL": "file:x.db"},
		"bad timezone":        {"STATS_TIMEZONE": "Mars/Olympus"},
		"bad buffer":          {"NOTIFY_BUFFER": "many"},
		"prod default secret": {"APP_ENV": "production", "NOTIFY_BACKEND": "redis", "REDIS_URL": "redis://r:6379"},
		"prod memory backend": {"APP_ENV": "prod", "JWT_SECRET": "s3cret-value"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_ProdAccepted(t *testing.T) {
	t.Setenv("APP_ENV", "release")
	t.Setenv("JWT_SECRET", "s3cret-value")
	t.Setenv("NOTIFY_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://intake:intake@db:5432/intake?sslmode=disable")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}
