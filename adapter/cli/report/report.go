// Package report holds the `cmt report` commands.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
	"github.com/MohamedAbusurra/CS438class/internal/reports/application/commands"
)

// NewCmd builds the report command group.
func NewCmd(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Request and track project reports",
	}
	cmd.AddCommand(
		newRequestCmd(a),
		newStatusCmd(a),
		newListCmd(a),
	)
	return cmd
}

func newRequestCmd(a *cli.App) *cobra.Command {
	var (
		reportType string
		filters    string
	)

	cmd := &cobra.Command{
		Use:   "request [project-id]",
		Short: "Request a performance report",
		Long: `Request a performance report for a project. Generation runs in the
background; use "cmt report status" to follow it.

Examples:
  cmt report request 6f1c...
  cmt report request 6f1c... --filters '{"include_contributions": false}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := cli.ParseID("project", args[0])
			if err != nil {
				return err
			}
			var filterMap map[string]any
			if filters != "" {
				if err := json.Unmarshal([]byte(filters), &filterMap); err != nil {
					return fmt.Errorf("invalid --filters JSON: %w", err)
				}
			}
			result, err := a.Container.RequestReport.Handle(cmd.Context(), commands.RequestReportCommand{
				ProjectID:  projectID,
				ReportType: reportType,
				CreatedBy:  a.ActorPtr(),
				Filters:    filterMap,
			})
			if err != nil {
				return fmt.Errorf("failed to request report: %w", err)
			}
			cli.Printf(cmd, "Report requested: %s\n", result.ReportID)
			return nil
		},
	}
	cmd.Flags().StringVar(&reportType, "type", "performance", "report type")
	cmd.Flags().StringVar(&filters, "filters", "", "filters as a JSON object")
	return cmd
}

func newStatusCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "status [report-id]",
		Short: "Show a report's generation status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.ParseID("report", args[0])
			if err != nil {
				return err
			}
			status, err := a.Container.Reports.GetReportStatus(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load report: %w", err)
			}
			cli.Printf(cmd, "Report %s: %s (%v%%)\n", id, status["status"], status["progress"])
			cli.Printf(cmd, "  completed: %s\n", cli.Value(status["completed_at"]))
			cli.Printf(cmd, "  file: %s\n", cli.Value(status["file_path"]))
			return nil
		},
	}
}

func newListCmd(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [project-id]",
		Short: "List a project's reports, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := cli.ParseID("project", args[0])
			if err != nil {
				return err
			}
			reports, err := a.Container.Reports.ListProjectReports(cmd.Context(), projectID)
			if err != nil {
				return fmt.Errorf("failed to list reports: %w", err)
			}
			if len(reports) == 0 {
				cli.Printf(cmd, "No reports.\n")
				return nil
			}
			for _, r := range reports {
				cli.Printf(cmd, "%s  %-10s %3v%%  %s\n", r["id"], r["status"], r["progress"], cli.Value(r["created_at"]))
			}
			return nil
		},
	}
}
