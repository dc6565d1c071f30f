// Package project holds the `cmt project` commands.
package project

import (
	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
)

// NewCmd builds the project command group.
func NewCmd(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
		Long:  `Create, list, inspect and delete projects and follow their progress.`,
	}
	cmd.AddCommand(
		newCreateCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDeleteCmd(a),
		newProgressCmd(a),
	)
	return cmd
}
