// Package config loads runtime settings from an optional YAML file, a
// .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string `yaml:"app_env"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogSource bool   `yaml:"log_source"`
	// UserID is the acting user for the CLI and MCP server.
	UserID string `yaml:"user_id"`

	// Database. An empty URL selects the local SQLite file at SQLitePath.
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	DBMaxConns  int    `yaml:"db_max_conns"`

	// Optional infrastructure; empty disables it.
	RedisURL    string `yaml:"redis_url"`
	RabbitMQURL string `yaml:"rabbitmq_url"`

	// Servers
	HTTPAddr         string        `yaml:"http_addr"`
	HTTPReadTimeout  time.Duration `yaml:"http_read_timeout"`
	HTTPWriteTimeout time.Duration `yaml:"http_write_timeout"`
	WorkerHealthAddr string        `yaml:"worker_health_addr"`
	MCPAddr          string        `yaml:"mcp_addr"`
	MCPAuthToken     string        `yaml:"mcp_auth_token"`

	// Auth
	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`

	// Storage
	StorageBackend    string `yaml:"storage_backend"`
	StorageDir        string `yaml:"storage_dir"`
	S3Bucket          string `yaml:"s3_bucket"`
	S3Region          string `yaml:"s3_region"`
	S3Endpoint        string `yaml:"s3_endpoint"`
	S3AccessKeyID     string `yaml:"s3_access_key_id"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key"`

	// Reports
	ReportLockTTL time.Duration `yaml:"report_lock_ttl"`
}

// Defaults returns the development configuration.
func Defaults() *Config {
	return &Config{
		AppEnv:           "development",
		LogLevel:         "info",
		LogFormat:        "text",
		DBMaxConns:       10,
		HTTPAddr:         "0.0.0.0:8080",
		HTTPReadTimeout:  15 * time.Second,
		HTTPWriteTimeout: 30 * time.Second,
		WorkerHealthAddr: "0.0.0.0:8081",
		MCPAddr:          "0.0.0.0:8082",
		JWTSecret:        "dev-secret-change-me",
		JWTTTL:           24 * time.Hour,
		StorageBackend:   "local",
		StorageDir:       defaultStorageDir(),
		S3Region:         "us-east-1",
		ReportLockTTL:    5 * time.Minute,
	}
}

// Load reads .env and the environment on top of the defaults.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile decodes path (when non-empty) over the defaults, then applies
// .env and environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		f, err := os.Open(path) // #nosec G304 -- operator supplied
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.LogSource = getBoolEnv("LOG_SOURCE", c.LogSource)
	c.UserID = getEnv("CMT_USER_ID", c.UserID)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.SQLitePath = getEnv("CMT_SQLITE_PATH", c.SQLitePath)
	c.DBMaxConns = getIntEnv("DB_MAX_CONNS", c.DBMaxConns)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.RabbitMQURL = getEnv("RABBITMQ_URL", c.RabbitMQURL)
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.HTTPReadTimeout = getDurationEnv("HTTP_READ_TIMEOUT", c.HTTPReadTimeout)
	c.HTTPWriteTimeout = getDurationEnv("HTTP_WRITE_TIMEOUT", c.HTTPWriteTimeout)
	c.WorkerHealthAddr = getEnv("WORKER_HEALTH_ADDR", c.WorkerHealthAddr)
	c.MCPAddr = getEnv("MCP_ADDR", c.MCPAddr)
	c.MCPAuthToken = getEnv("MCP_AUTH_TOKEN", c.MCPAuthToken)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTTTL = getDurationEnv("JWT_TTL", c.JWTTTL)
	c.StorageBackend = getEnv("STORAGE_BACKEND", c.StorageBackend)
	c.StorageDir = getEnv("STORAGE_DIR", c.StorageDir)
	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3Region = getEnv("S3_REGION", c.S3Region)
	c.S3Endpoint = getEnv("S3_ENDPOINT", c.S3Endpoint)
	c.S3AccessKeyID = getEnv("S3_ACCESS_KEY_ID", c.S3AccessKeyID)
	c.S3SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", c.S3SecretAccessKey)
	c.ReportLockTTL = getDurationEnv("REPORT_LOCK_TTL", c.ReportLockTTL)
}

// Validate rejects combinations that cannot start.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "local":
		if c.StorageDir == "" {
			return errors.New("storage_dir is required for local storage")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("s3_bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.IsProduction() && c.JWTSecret == Defaults().JWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func defaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cmt/files"
	}
	return home + "/.cmt/files"
}
