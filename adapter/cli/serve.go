package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/adapter/api"
)

// NewServeCmd runs the HTTP API until the command context is cancelled.
func NewServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := api.DefaultServerConfig()
			cfg.Addr = a.Config.HTTPAddr
			if addr != "" {
				cfg.Addr = addr
			}
			if a.Config.HTTPReadTimeout > 0 {
				cfg.ReadTimeout = a.Config.HTTPReadTimeout
			}
			if a.Config.HTTPWriteTimeout > 0 {
				cfg.WriteTimeout = a.Config.HTTPWriteTimeout
			}

			server := api.NewServer(cfg, a.Container, a.Logger)
			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to HTTP_ADDR)")
	return cmd
}

// NewMigrateCmd applies pending database migrations.
func NewMigrateCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := a.Container.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				Printf(cmd, "Database is up to date\n")
				return nil
			}
			for _, v := range applied {
				Printf(cmd, "Applied %s\n", v)
			}
			return nil
		},
	}
}
