package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
	"github.com/MohamedAbusurra/CS438class/internal/projects/application/commands"
	"github.com/MohamedAbusurra/CS438class/internal/projects/application/queries"
)

func newCreateCmd(a *cli.App) *cobra.Command {
	var description, start, end, status string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new project",
		Long: `Create a new project with a name and optional properties.

Examples:
  cmt project create "Website Redesign"
  cmt project create "Q1 Goals" --end 2026-03-31
  cmt project create "Launch" -d "Ship v2" --start 2026-01-15 --status pending`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := cli.ParseDate(start)
			if err != nil {
				return err
			}
			endDate, err := cli.ParseDate(end)
			if err != nil {
				return err
			}

			result, err := a.Container.CreateProject.Handle(cmd.Context(), commands.CreateProjectCommand{
				Name:            args[0],
				Description:     description,
				StartDate:       startDate,
				ExpectedEndDate: endDate,
				Status:          status,
				CreatedBy:       a.ActorPtr(),
			})
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}

			cli.Printf(cmd, "Project created: %s\n", result.ProjectID)
			cli.Printf(cmd, "  name: %s\n", args[0])
			cli.Printf(cmd, "  status: %s\n", cli.Value(result.Project["status"]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "project description")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "expected end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "active, pending, on_hold, completed or cancelled")
	return cmd
}

func newListCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects := a.Container.ListProjects.Handle(cmd.Context())
			if len(projects) == 0 {
				cli.Printf(cmd, "No projects found.\n")
				return nil
			}
			for _, p := range projects {
				cli.Printf(cmd, "%s  %-10s  %s\n", p["id"], cli.Value(p["status"]), p["name"])
			}
			return nil
		},
	}
}

func newShowCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [project-id]",
		Short: "Show a project with its milestones and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("project", args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			p, err := a.Container.GetProject.Handle(ctx, queries.GetProjectQuery{ProjectID: id})
			if err != nil {
				return fmt.Errorf("failed to load project: %w", err)
			}

			cli.Printf(cmd, "%s\n", p["name"])
			cli.Printf(cmd, "  id: %s\n", p["id"])
			cli.Printf(cmd, "  status: %s\n", cli.Value(p["status"]))
			cli.Printf(cmd, "  start: %s  end: %s\n", cli.Value(p["start_date"]), cli.Value(p["expected_end_date"]))
			if desc, _ := p["description"].(string); desc != "" {
				cli.Printf(cmd, "  description: %s\n", desc)
			}

			milestones, err := a.Container.Milestones.GetMilestones(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load milestones: %w", err)
			}
			cli.Printf(cmd, "Milestones (%d):\n", len(milestones))
			for _, m := range milestones {
				cli.Printf(cmd, "  %s  %-11s %5.1f%%  due %s  %s\n",
					m["id"], m["status"], m["completion_percentage"], m["due_date"], m["title"])
			}

			tasks := a.Container.ProjectLookups.GetTasks(ctx, id)
			cli.Printf(cmd, "Tasks (%d):\n", len(tasks))
			for _, t := range tasks {
				cli.Printf(cmd, "  %s  %-11s due %s  %s\n", t["id"], t["status"], cli.Value(t["due_date"]), t["title"])
			}
			return nil
		},
	}
}

func newDeleteCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [project-id]",
		Short: "Delete a project; its files are kept but unlinked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("project", args[0])
			if err != nil {
				return err
			}
			if err := a.Container.DeleteProject.Handle(cmd.Context(), commands.DeleteProjectCommand{ProjectID: id}); err != nil {
				return fmt.Errorf("failed to delete project: %w", err)
			}
			cli.Printf(cmd, "Project deleted: %s\n", id)
			return nil
		},
	}
}

func newProgressCmd(a *cli.App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "progress [project-id]",
		Short: "Show milestone progress for a project",
		Long: `Show milestone progress for a project.

With --refresh every milestone is recomputed from its tasks first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("project", args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if refresh && !a.Container.UpdateMilestoneProgress.Handle(ctx, commands.UpdateMilestoneProgressCommand{ProjectID: id}) {
				cli.Printf(cmd, "warning: milestone refresh failed, showing stored progress\n")
			}

			progress, err := a.Container.ProjectProgress.Handle(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load progress: %w", err)
			}
			cli.Printf(cmd, "%s (%s): %.1f%% overall\n", progress.Name, progress.Status, progress.Overall)
			for _, m := range progress.Milestones {
				marker := " "
				if progress.ActiveMilestone != nil && *progress.ActiveMilestone == m.MilestoneID {
					marker = "*"
				}
				cli.Printf(cmd, "%s %-30s %-11s %5.1f%%  due %s\n", marker, m.Title, m.Status, m.CompletionPercentage, m.DueDate)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute milestones before printing")
	return cmd
}
