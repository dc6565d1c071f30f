// Package cli holds the cmt command tree. Subpackages build their command
// groups from an *App; nothing is kept in package globals.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/internal/app"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/pkg/config"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

// App is what every command runs against. The container is opened lazily
// by the root command once flags are parsed.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Container *app.Container

	// CurrentUserID is the acting user, from CMT_USER_ID or --as.
	CurrentUserID uuid.UUID

	// ownsContainer is false when a caller injected Container.
	ownsContainer bool
}

// NewApp creates an App. A non-nil container is used as is, which lets
// tests run commands against a prepared database.
func NewApp(container *app.Container, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Container: container, Logger: logger}
	if container != nil {
		a.Config = container.Config
	}
	return a
}

// Open loads configuration and builds the container unless one is present.
func (a *App) Open(ctx context.Context, cfgPath, userOverride string) error {
	if a.Container == nil {
		cfg, err := config.LoadFile(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		a.Config = cfg
		a.Logger = observability.NewLogger(observability.LogConfig{
			Level:       cfg.LogLevel,
			Format:      observability.LogFormat(cfg.LogFormat),
			AddSource:   cfg.LogSource,
			ServiceName: "cmt",
		})
		container, err := app.NewContainer(ctx, cfg, a.Logger)
		if err != nil {
			return err
		}
		a.Container = container
		a.ownsContainer = true
	}

	user := userOverride
	if user == "" && a.Config != nil {
		user = a.Config.UserID
	}
	if user != "" {
		id, err := uuid.Parse(user)
		if err != nil {
			return fmt.Errorf("invalid acting user %q: %w", user, err)
		}
		a.CurrentUserID = id
	}
	return nil
}

// Close releases the container when the App opened it.
func (a *App) Close() error {
	if a.Container == nil || !a.ownsContainer {
		return nil
	}
	err := a.Container.Close()
	a.Container = nil
	return err
}

// Actor returns the acting user, or an error when none is configured.
func (a *App) Actor() (uuid.UUID, error) {
	if a.CurrentUserID == uuid.Nil {
		return uuid.Nil, errors.New("no acting user: set CMT_USER_ID or pass --as")
	}
	return a.CurrentUserID, nil
}

// ActorPtr is Actor for optional creator fields; nil when unset.
func (a *App) ActorPtr() *uuid.UUID {
	if a.CurrentUserID == uuid.Nil {
		return nil
	}
	id := a.CurrentUserID
	return &id
}

// ParseID parses a uuid argument.
func ParseID(kind, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

// ParseOptionalID parses a uuid flag that may be empty.
func ParseOptionalID(kind, s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := ParseID(kind, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseDate parses a YYYY-MM-DD flag that may be empty.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := sharedDomain.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date format (use YYYY-MM-DD): %q", s)
	}
	return &t, nil
}

// Printf writes to the command's output.
func Printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// Value renders a possibly-nil serialized field.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case *string:
		if x == nil {
			return "-"
		}
		return *x
	default:
		return fmt.Sprint(x)
	}
}
