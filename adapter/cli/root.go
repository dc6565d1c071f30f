package cli

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// NewRootCmd builds the cmt root command. Subcommand groups are added by
// the caller.
func NewRootCmd(a *App) *cobra.Command {
	var (
		cfgFile string
		asUser  string
	)

	root := &cobra.Command{
		Use:   "cmt",
		Short: "cmt - collaborative project management",
		Long: `cmt tracks projects, milestones and tasks for a team, generates
performance reports and keeps members informed through messages and
notifications.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			info := commandContext{
				correlationID: uuid.New(),
				startedAt:     time.Now(),
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = observability.WithCorrelationID(ctx, info.correlationID.String())
			ctx = context.WithValue(ctx, commandContextKey{}, info)
			cmd.SetContext(ctx)

			if err := a.Open(ctx, cfgFile, asUser); err != nil {
				return err
			}
			if a.CurrentUserID != uuid.Nil {
				cmd.SetContext(observability.WithUserID(ctx, a.CurrentUserID.String()))
			}
			a.Logger.InfoContext(cmd.Context(), "command start", "command", cmd.CommandPath())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if info, ok := cmd.Context().Value(commandContextKey{}).(commandContext); ok {
				a.Logger.InfoContext(cmd.Context(), "command end",
					"command", cmd.CommandPath(),
					"duration_ms", time.Since(info.startedAt).Milliseconds(),
				)
			}
			return a.Close()
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML)")
	root.PersistentFlags().StringVar(&asUser, "as", "", "acting user id (overrides CMT_USER_ID)")
	return root
}
