package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/MohamedAbusurra/CS438class/internal/app"
	mcpinternal "github.com/MohamedAbusurra/CS438class/internal/mcp"
	"github.com/MohamedAbusurra/CS438class/pkg/config"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      observability.LogFormat(cfg.LogFormat),
		AddSource:   cfg.LogSource,
		ServiceName: "cmt-mcp",
	})

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid CMT_USER_ID", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer func() { _ = container.Close() }()

	cliApp := mcpinternal.NewCLIApp(container, userID)
	if err := mcpinternal.Serve(ctx, cfg, cliApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
