// Package user holds the `cmt user` commands.
package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
	"github.com/MohamedAbusurra/CS438class/internal/identity/application/commands"
)

// NewCmd builds the user command group.
func NewCmd(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newRegisterCmd(a), newRoleCmd(a))
	return cmd
}

func newRegisterCmd(a *cli.App) *cobra.Command {
	var (
		email     string
		firstName string
		lastName  string
		password  string
		role      string
	)

	cmd := &cobra.Command{
		Use:   "register [username]",
		Short: "Register a user",
		Long: `Register a user. Unlike self-registration over HTTP, an operator
may choose the initial role here.

Examples:
  cmt user register maria --email maria@example.com --password 'S3cretPass' --role admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.Container.RegisterUser.Handle(cmd.Context(), commands.RegisterUserCommand{
				Username:  args[0],
				Email:     email,
				FirstName: firstName,
				LastName:  lastName,
				Password:  password,
				Role:      role,
			})
			if err != nil {
				return fmt.Errorf("failed to register user: %w", err)
			}
			cli.Printf(cmd, "User registered: %s\n", u.ID())
			cli.Printf(cmd, "  username: %s  role: %s\n", u.Username(), u.Role())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&password, "password", "", "password (8+ chars, a digit and an uppercase letter)")
	cmd.Flags().StringVar(&role, "role", "team_member", "admin, supervisor, project_manager or team_member")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRoleCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "role [user-id] [role]",
		Short: "Change a user's role; the acting user must be an admin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.Actor()
			if err != nil {
				return err
			}
			id, err := cli.ParseID("user", args[0])
			if err != nil {
				return err
			}
			u, err := a.Container.AssignRole.Handle(cmd.Context(), commands.AssignRoleCommand{
				ActorID: actor,
				UserID:  id,
				Role:    args[1],
			})
			if err != nil {
				return fmt.Errorf("failed to change role: %w", err)
			}
			cli.Printf(cmd, "%s is now %s\n", u.Username(), u.Role())
			return nil
		},
	}
}
