// Package message holds the `cmt message` commands.
package message

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
)

// NewCmd builds the message command group.
func NewCmd(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Send and read direct messages",
	}
	cmd.AddCommand(newSendCmd(a), newUnreadCmd(a))
	return cmd
}

func newSendCmd(a *cli.App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "send [user-id] [content]",
		Short: "Send a direct message as the acting user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := a.Actor()
			if err != nil {
				return err
			}
			receiver, err := cli.ParseID("user", args[0])
			if err != nil {
				return err
			}
			projectID, err := cli.ParseOptionalID("project", project)
			if err != nil {
				return err
			}
			msg, err := a.Container.Messages.SendDirectMessage(cmd.Context(), sender, receiver, args[1], projectID)
			if err != nil {
				return fmt.Errorf("failed to send message: %w", err)
			}
			cli.Printf(cmd, "Message sent: %s\n", msg.ID())
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project the message is about")
	return cmd
}

func newUnreadCmd(a *cli.App) *cobra.Command {
	var markRead bool

	cmd := &cobra.Command{
		Use:   "unread",
		Short: "Show the acting user's unread messages, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.Actor()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			messages := a.Container.Messages.GetUnreadMessages(ctx, me)
			if len(messages) == 0 {
				cli.Printf(cmd, "No unread messages.\n")
				return nil
			}
			for _, m := range messages {
				cli.Printf(cmd, "%s  from %s: %s\n", m.Timestamp().Format("2006-01-02 15:04"), m.SenderID(), m.Content())
				if markRead {
					a.Container.Messages.MarkMessageRead(ctx, m.ID(), me)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&markRead, "mark-read", false, "mark the listed messages read")
	return cmd
}
