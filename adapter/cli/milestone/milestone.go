// Package milestone holds the `cmt milestone` commands.
package milestone

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
	"github.com/MohamedAbusurra/CS438class/internal/projects/application/commands"
)

// NewCmd builds the milestone command group.
func NewCmd(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage project milestones",
	}
	cmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newActiveCmd(a),
		newRecomputeCmd(a),
		newDeleteCmd(a),
		newLinkCmd(a),
	)
	return cmd
}

func printMilestone(cmd *cobra.Command, m map[string]any) {
	cli.Printf(cmd, "%s  %-11s %5.1f%%  due %s  %s\n",
		m["id"], m["status"], m["completion_percentage"], m["due_date"], m["title"])
}

func newAddCmd(a *cli.App) *cobra.Command {
	var description, due, status string

	cmd := &cobra.Command{
		Use:   "add [project-id] [title]",
		Short: "Add a milestone to a project",
		Long: `Add a milestone to a project. The due date is required.

Examples:
  cmt milestone add 6f1c... "Design complete" --due 2026-05-01`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := cli.ParseID("project", args[0])
			if err != nil {
				return err
			}
			dueDate, err := cli.ParseDate(due)
			if err != nil {
				return err
			}
			result, err := a.Container.AddMilestone.Handle(cmd.Context(), commands.AddMilestoneCommand{
				ProjectID:   projectID,
				Title:       args[1],
				Description: description,
				DueDate:     dueDate,
				Status:      status,
			})
			if err != nil {
				return fmt.Errorf("failed to add milestone: %w", err)
			}
			cli.Printf(cmd, "Milestone added: %s\n", result.MilestoneID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "milestone description")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "initial status (defaults to not_started)")
	return cmd
}

func newListCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [project-id]",
		Short: "List a project's milestones by due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := cli.ParseID("project", args[0])
			if err != nil {
				return err
			}
			milestones, err := a.Container.Milestones.GetMilestones(cmd.Context(), projectID)
			if err != nil {
				return fmt.Errorf("failed to list milestones: %w", err)
			}
			if len(milestones) == 0 {
				cli.Printf(cmd, "No milestones.\n")
				return nil
			}
			for _, m := range milestones {
				printMilestone(cmd, m)
			}
			return nil
		},
	}
}

func newActiveCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "active [project-id]",
		Short: "Show the earliest-due milestone that is not completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := cli.ParseID("project", args[0])
			if err != nil {
				return err
			}
			m, err := a.Container.Milestones.GetActiveMilestone(cmd.Context(), projectID)
			if err != nil {
				return fmt.Errorf("failed to load active milestone: %w", err)
			}
			if m == nil {
				cli.Printf(cmd, "No active milestone.\n")
				return nil
			}
			printMilestone(cmd, m)
			return nil
		},
	}
}

func newRecomputeCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute [milestone-id]",
		Short: "Recompute a milestone's completion and status from its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("milestone", args[0])
			if err != nil {
				return err
			}
			result, err := a.Container.RecomputeMilestone.Handle(cmd.Context(), commands.RecomputeMilestoneCommand{MilestoneID: id})
			if err != nil {
				return fmt.Errorf("failed to recompute milestone: %w", err)
			}
			cli.Printf(cmd, "Milestone %s: %.1f%% (%s)\n", id, result.CompletionPercentage, result.Status)
			return nil
		},
	}
}

func newDeleteCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [milestone-id]",
		Short: "Delete a milestone; its tasks are kept and unlinked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("milestone", args[0])
			if err != nil {
				return err
			}
			projectID, err := a.Container.DeleteMilestone.Handle(cmd.Context(), commands.DeleteMilestoneCommand{MilestoneID: id})
			if err != nil {
				return fmt.Errorf("failed to delete milestone: %w", err)
			}
			cli.Printf(cmd, "Milestone deleted from project %s\n", projectID)
			return nil
		},
	}
}

func newLinkCmd(a *cli.App) *cobra.Command {
	var unlink bool

	cmd := &cobra.Command{
		Use:   "link [task-id] [milestone-id]",
		Short: "Link a task to a milestone, or unlink it with --unlink",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := cli.ParseID("task", args[0])
			if err != nil {
				return err
			}
			link := commands.LinkTaskCommand{TaskID: taskID}
			switch {
			case unlink:
			case len(args) == 2:
				milestoneID, err := cli.ParseID("milestone", args[1])
				if err != nil {
					return err
				}
				link.MilestoneID = &milestoneID
			default:
				return fmt.Errorf("a milestone id is required unless --unlink is set")
			}

			if err := a.Container.LinkTask.Handle(cmd.Context(), link); err != nil {
				return fmt.Errorf("failed to link task: %w", err)
			}
			if link.MilestoneID == nil {
				cli.Printf(cmd, "Task %s unlinked\n", taskID)
			} else {
				cli.Printf(cmd, "Task %s linked to milestone %s\n", taskID, link.MilestoneID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&unlink, "unlink", false, "remove the task from its milestone")
	return cmd
}
