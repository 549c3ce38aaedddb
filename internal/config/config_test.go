package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[database]
user = "laundry"
dbname = "laundry_booking"

[auth]
jwt_secret = "from-file"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_PASSWORD", "DB_HOST", "JWT_SECRET", "REDIS_ADDR", "REDIS_PASSWORD", "RABBITMQ_URL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 240, cfg.Booking.MaxDurationMinutes)
	assert.Equal(t, 60, cfg.Booking.DefaultCycleMinutes)
	assert.Equal(t, "10.00", cfg.Booking.CostPerCycle().StringFixed(2))
	assert.Equal(t, "UTC", cfg.Booking.Location().String())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
}

func TestLoad_Timezone(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig+`
[booking]
timezone = "Europe/Moscow"
`))
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", cfg.Booking.Location().String())
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
	}{
		{name: "missing secret", content: "[database]\nuser = \"u\"\ndbname = \"d\"\n"},
		{name: "missing dbname", content: "[database]\nuser = \"u\"\n[auth]\njwt_secret = \"s\"\n"},
		{name: "window inverted", content: minimalConfig + "[booking]\ndefault_open_time = \"22:00\"\ndefault_close_time = \"08:00\"\n"},
		{name: "bad cost", content: minimalConfig + "[booking]\ndefault_cost_per_cycle = \"ten\"\n"},
		{name: "bad timezone", content: minimalConfig + "[booking]\ntimezone = \"Mars/Olympus\"\n"},
		{name: "zero duration", content: minimalConfig + "[booking]\nmax_duration_minutes = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_RateLimitNormalized(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig+`
[rate_limit]
enabled = true
capacity = 0
refill_tokens = 0
refill_interval_ms = 2000
ttl_seconds = 1
`))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.RateLimit.Capacity)
	assert.Equal(t, 1, cfg.RateLimit.RefillTokens)
	assert.Equal(t, 10, cfg.RateLimit.TTLSeconds)
}

func TestLoad_RabbitMQNormalized(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig+`
[rabbitmq]
enabled = true
publish_timeout = 0
buffer_size = -1
`))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.RabbitMQ.PublishTimeout)
	assert.Equal(t, 256, cfg.RabbitMQ.BufferSize)
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
