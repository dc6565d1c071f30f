// Package task holds the `cmt task` commands.
package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/application/commands"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/application/queries"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
)

// NewCmd builds the task command group.
func NewCmd(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long:  `Add, update, list and delete project tasks.`,
	}
	cmd.AddCommand(
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
	)
	return cmd
}

func newAddCmd(a *cli.App) *cobra.Command {
	var (
		description string
		importance  string
		status      string
		due         string
		start       string
		milestone   string
		assignee    string
		estimate    int
	)

	cmd := &cobra.Command{
		Use:   "add [project-id] [title]",
		Short: "Add a task to a project",
		Long: `Add a task to a project.

Examples:
  cmt task add 6f1c... "Write API docs" --due 2026-04-01 --importance high
  cmt task add 6f1c... "Review PR" --assignee 2b7e... --milestone 91aa...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := cli.ParseID("project", args[0])
			if err != nil {
				return err
			}
			create := commands.CreateTaskCommand{
				Title:      args[1],
				ProjectID:  projectID,
				Importance: importance,
				Status:     status,
				CreatedBy:  a.ActorPtr(),
			}
			if description != "" {
				create.Description = &description
			}
			if estimate > 0 {
				create.EstimatedDuration = &estimate
			}
			if create.DueDate, err = cli.ParseDate(due); err != nil {
				return err
			}
			if create.StartDate, err = cli.ParseDate(start); err != nil {
				return err
			}
			if create.MilestoneID, err = cli.ParseOptionalID("milestone", milestone); err != nil {
				return err
			}
			if create.AssignedTo, err = cli.ParseOptionalID("user", assignee); err != nil {
				return err
			}

			result, err := a.Container.CreateTask.Handle(cmd.Context(), create)
			if err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}
			cli.Printf(cmd, "Task created: %s\n", result.TaskID)
			cli.Printf(cmd, "  title: %s\n", args[1])
			cli.Printf(cmd, "  status: %s  importance: %s\n", result.Task["status"], result.Task["importance"])
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&importance, "importance", "i", "", "normal or high")
	cmd.Flags().StringVar(&status, "status", "", "not_begun, in_progress or finished")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "planned start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&milestone, "milestone", "", "milestone id")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assigned user id")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated duration")
	return cmd
}

func newUpdateCmd(a *cli.App) *cobra.Command {
	var (
		title       string
		description string
		importance  string
		status      string
		due         string
		milestone   string
		assignee    string
		estimate    int
	)

	cmd := &cobra.Command{
		Use:   "update [task-id]",
		Short: "Update a task",
		Long: `Update the given fields of a task. Only flags that are passed change.
Pass an empty value to --due, --milestone or --assignee to clear it.

Examples:
  cmt task update 5d2a... --status finished
  cmt task update 5d2a... --assignee ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("task", args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			var u domain.Update
			if flags.Changed("title") {
				u.Title = sharedDomain.Some(title)
			}
			if flags.Changed("description") {
				u.Description = sharedDomain.Some(description)
			}
			if flags.Changed("importance") {
				u.Importance = sharedDomain.Some(importance)
			}
			if flags.Changed("status") {
				u.Status = sharedDomain.Some(status)
			}
			if flags.Changed("estimate") {
				u.EstimatedDuration = sharedDomain.Some(estimate)
			}
			if flags.Changed("due") {
				d, err := cli.ParseDate(due)
				if err != nil {
					return err
				}
				u.DueDate = sharedDomain.FromPtr(d)
			}
			if flags.Changed("milestone") {
				m, err := cli.ParseOptionalID("milestone", milestone)
				if err != nil {
					return err
				}
				u.MilestoneID = sharedDomain.FromPtr(m)
			}
			if flags.Changed("assignee") {
				as, err := cli.ParseOptionalID("user", assignee)
				if err != nil {
					return err
				}
				u.AssignedTo = sharedDomain.FromPtr(as)
			}

			result, err := a.Container.UpdateTask.Handle(cmd.Context(), commands.UpdateTaskCommand{TaskID: id, Update: u})
			if err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
			if len(result.Fields) == 0 {
				cli.Printf(cmd, "Nothing to update\n")
				return nil
			}
			cli.Printf(cmd, "Task updated: %s (%v)\n", id, result.Fields)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&importance, "importance", "i", "", "normal or high")
	cmd.Flags().StringVar(&status, "status", "", "not_begun, in_progress or finished")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD), empty clears")
	cmd.Flags().StringVar(&milestone, "milestone", "", "milestone id, empty unlinks")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assigned user id, empty unassigns")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated duration")
	return cmd
}

func newDeleteCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [task-id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("task", args[0])
			if err != nil {
				return err
			}
			projectID, err := a.Container.DeleteTask.Handle(cmd.Context(), commands.DeleteTaskCommand{TaskID: id})
			if err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}
			cli.Printf(cmd, "Task deleted from project %s\n", projectID)
			return nil
		},
	}
}

func newListCmd(a *cli.App) *cobra.Command {
	var (
		status   string
		assignee string
		mine     bool
		high     bool
	)

	cmd := &cobra.Command{
		Use:   "list [project-id]",
		Short: "List a project's tasks by due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := cli.ParseID("project", args[0])
			if err != nil {
				return err
			}
			q := queries.ListTasksQuery{ProjectID: projectID, Status: status, HighOnly: high}
			if q.AssignedTo, err = cli.ParseOptionalID("user", assignee); err != nil {
				return err
			}
			if mine {
				me, err := a.Actor()
				if err != nil {
					return err
				}
				q.AssignedTo = &me
			}

			tasks, err := a.Container.ListTasks.Handle(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}
			if len(tasks) == 0 {
				cli.Printf(cmd, "No tasks found.\n")
				return nil
			}
			for _, t := range tasks {
				flag := " "
				if high, _ := t["is_high_importance"].(bool); high {
					flag = "!"
				}
				cli.Printf(cmd, "%s %s  %-11s due %-10s  %s\n", flag, t["id"], t["status"], cli.Value(t["due_date"]), t["title"])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only tasks with this status")
	cmd.Flags().StringVar(&assignee, "assignee", "", "only tasks assigned to this user")
	cmd.Flags().BoolVar(&mine, "mine", false, "only tasks assigned to the acting user")
	cmd.Flags().BoolVar(&high, "high", false, "only high-importance tasks")
	return cmd
}
