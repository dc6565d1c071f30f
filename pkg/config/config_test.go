package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE", "CMT_USER_ID",
	"DATABASE_URL", "CMT_SQLITE_PATH", "DB_MAX_CONNS", "REDIS_URL", "RABBITMQ_URL",
	"HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "WORKER_HEALTH_ADDR",
	"MCP_ADDR", "MCP_AUTH_TOKEN", "JWT_SECRET", "JWT_TTL",
	"STORAGE_BACKEND", "STORAGE_DIR", "S3_BUCKET", "S3_REGION", "S3_ENDPOINT",
	"S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "REPORT_LOCK_TTL",
}

// clearEnv unsets every key and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, 5*time.Minute, cfg.ReportLockTTL)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("DATABASE_URL", "postgres://cmt@localhost/cmt")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("LOG_SOURCE", "true")
	t.Setenv("REPORT_LOCK_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.AppEnv)
	assert.Equal(t, "postgres://cmt@localhost/cmt", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 25, cfg.DBMaxConns)
	assert.True(t, cfg.LogSource)
	assert.Equal(t, 5*time.Minute, cfg.ReportLockTTL)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cmt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_env: development
http_addr: 127.0.0.1:9000
storage_backend: s3
s3_bucket: cmt-files
jwt_ttl: 30m
`), 0o600))

	t.Run("file values apply", func(t *testing.T) {
		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
		assert.Equal(t, "s3", cfg.StorageBackend)
		assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("HTTP_ADDR", "0.0.0.0:7000")
		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:7000", cfg.HTTPAddr)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("colour: blue\n"), 0o600))
		_, err := LoadFile(bad)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.StorageBackend = "s3"
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.StorageBackend = "ftp"
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.AppEnv = "production"
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWTSecret = "s3cr3t"
	assert.NoError(t, cfg.Validate())
}
