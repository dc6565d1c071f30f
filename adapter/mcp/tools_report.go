package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/MohamedAbusurra/CS438class/internal/reports/application/commands"
)

type reportRequestInput struct {
	ProjectID string         `json:"project_id" jsonschema:"required"`
	Filters   map[string]any `json:"filters,omitempty"`
}

type reportIDInput struct {
	ReportID string `json:"report_id" jsonschema:"required"`
}

func registerReportTools(srv *mcp.Server, t *toolset) {
	srv.Tool("report.request").
		Description("Request a performance report for a project; generation runs in the background").
		Handler(t.reportRequest)

	srv.Tool("report.status").
		Description("Poll a report's status and progress").
		Handler(t.reportStatus)

	srv.Tool("notification.unread").
		Description("List the current user's unread notifications").
		Handler(t.notificationUnread)
}

func (t *toolset) reportRequest(ctx context.Context, input reportRequestInput) (map[string]any, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	projectID, err := parseUUID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	result, err := t.app.Container.RequestReport.Handle(ctx, commands.RequestReportCommand{
		ProjectID: projectID,
		CreatedBy: t.app.ActorPtr(),
		Filters:   input.Filters,
	})
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}

func (t *toolset) reportStatus(ctx context.Context, input reportIDInput) (map[string]any, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	id, err := parseUUID(input.ReportID)
	if err != nil {
		return nil, err
	}
	return t.app.Container.Reports.GetReportStatus(ctx, id)
}

func (t *toolset) notificationUnread(ctx context.Context, _ struct{}) ([]map[string]any, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	me, err := t.app.Actor()
	if err != nil {
		return nil, err
	}
	unread := t.app.Container.Notifications.GetUnreadNotifications(ctx, me)
	out := make([]map[string]any, 0, len(unread))
	for _, n := range unread {
		out = append(out, n.Serialize())
	}
	return out, nil
}
