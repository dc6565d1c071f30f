package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common project workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("project_status_review").
		Description("Review where a project stands: milestone progress, the active milestone and open risks.").
		Argument("project_id", "Project to review", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			projectID := args["project_id"]
			if projectID == "" {
				return nil, fmt.Errorf("project_id is required")
			}
			return &mcp.PromptResult{
				Description: "Project Status Review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Review project %s. Please:

1. Call project.progress with refresh=true to get current milestone percentages
2. Call milestone.active to find the milestone the team should focus on
3. Point out milestones that are delayed or due soon with low completion

Finish with a short status summary I can share with the team. If a report
would help, request one with report.request and poll report.status.`, projectID),
						},
					},
				},
			}, nil
		})

	srv.Prompt("inbox_triage").
		Description("Go through unread notifications and suggest what needs attention first.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Inbox Triage",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Read my unread notifications with notification.unread (or the
cmt://notifications/unread resource). Group them by project, call out new
task assignments and finished reports, and suggest task.update calls for
anything I should start now.`,
						},
					},
				},
			}, nil
		})

	return nil
}
