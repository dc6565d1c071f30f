package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MohamedAbusurra/CS438class/internal/app"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/eventbus"
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
		ServiceName: "cmt-worker",
	})

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// run consumes domain events from RabbitMQ and feeds them to the report
// and notification subscribers.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.RabbitMQURL == "" {
		return errors.New("RABBITMQ_URL is required: without a broker the API handles events in-process")
	}
	logger.Info("starting cmt worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer func() { _ = container.Close() }()

	registry := eventbus.NewConsumerRegistry(logger)
	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:       cfg.RabbitMQURL,
		QueueName: eventbus.DefaultQueueName,
		Logger:    logger,
	}, registry)
	if err != nil {
		return fmt.Errorf("failed to connect consumer: %w", err)
	}
	defer func() { _ = consumer.Close() }()

	for _, sub := range container.Subscribers() {
		if err := consumer.RegisterConsumer(sub); err != nil {
			return err
		}
	}
	logger.Info("subscribers registered", "event_types", registry.EventTypes())

	if cfg.WorkerHealthAddr != "" {
		healthSrv := newHealthServer(cfg.WorkerHealthAddr, container)
		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	return consumer.Start(ctx)
}

func newHealthServer(addr string, c *app.Container) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/healthz", c.Health.Handler())
	mux.Handle("/metrics", c.Prometheus.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
