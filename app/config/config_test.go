package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "APP_ADDR", "DB_DRIVER", "BADGER_PATH", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"REDIS_ADDR", "RATE_LIMIT", "RATE_WINDOW", "TRUSTED_PROXIES", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverBadger, cfg.DB.Driver)
	assert.Equal(t, "data/badger", cfg.DB.BadgerPath)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "posts.events", cfg.KafkaTopic)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, int64(120), cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, "contentservice", cfg.ServiceName)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "posts")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_WINDOW", "30s")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, int64(10), cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.RateWindow)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
	assert.Equal(t, 0.25, cfg.SampleRatio)
	assert.Contains(t, cfg.DB.DSN(), "host=db")
	assert.Contains(t, cfg.DB.DSN(), "dbname=posts")
}

func TestFromEnvInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "-3")
	t.Setenv("RATE_WINDOW", "soon")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "2")

	cfg := FromEnv()
	assert.Equal(t, int64(120), cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_ADDR=:7070\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	// godotenv does not override variables that are already set
	os.Unsetenv("APP_ADDR")
	t.Cleanup(func() { os.Unsetenv("APP_ADDR") })

	cfg := Load()
	assert.Equal(t, ":7070", cfg.Addr)
}
