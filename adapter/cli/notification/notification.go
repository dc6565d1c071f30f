// Package notification holds the `cmt notification` commands.
package notification

import (
	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
)

// NewCmd builds the notification command group.
func NewCmd(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notification",
		Aliases: []string{"notifications"},
		Short:   "Read notifications",
	}
	cmd.AddCommand(newListCmd(a), newReadAllCmd(a))
	return cmd
}

func newListCmd(a *cli.App) *cobra.Command {
	var (
		all   bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the acting user's notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.Actor()
			if err != nil {
				return err
			}
			notifications := a.Container.Notifications.GetUserNotifications(cmd.Context(), me, all, limit)
			if len(notifications) == 0 {
				cli.Printf(cmd, "No notifications.\n")
				return nil
			}
			for _, n := range notifications {
				marker := "*"
				if n.IsRead() {
					marker = " "
				}
				cli.Printf(cmd, "%s %s  [%s] %s  %s\n", marker, n.CreatedAt().Format("2006-01-02 15:04"), n.Type(), n.Title(), n.Link())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include notifications already read")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number to show (default 100)")
	return cmd
}

func newReadAllCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification of the acting user read",
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.Actor()
			if err != nil {
				return err
			}
			n := a.Container.Notifications.MarkAllRead(cmd.Context(), me)
			cli.Printf(cmd, "Marked %d notifications read\n", n)
			return nil
		},
	}
}
