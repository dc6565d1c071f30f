package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config selects and parameterises a backend.
type Config struct {
	// Driver is detected from URL when empty.
	Driver Driver
	// URL is the Postgres connection string.
	URL string
	// SQLitePath defaults to ~/.cmt/cmt.db. ":memory:" opens a throwaway database.
	SQLitePath string
	// MaxConns caps the Postgres pool.
	MaxConns int
}

type opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]opener{}

// RegisterDriver is called from the init of each driver package.
func RegisterDriver(d Driver, fn func(ctx context.Context, cfg Config) (Connection, error)) {
	openers[d] = fn
}

// NewConnection opens a connection for cfg. The driver package must be
// imported for its side effect.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DetectDriver(cfg.URL)
		if driver == DriverSQLite && cfg.SQLitePath == "" && cfg.URL != "" {
			cfg.SQLitePath = cfg.URL
		}
	}
	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath is where the CLI keeps its database.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cmt", "cmt.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
