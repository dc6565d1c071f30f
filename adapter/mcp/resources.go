package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers read-only MCP resources over project data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	t := &toolset{app: deps.App}

	srv.Resource("cmt://projects").
		Name("Projects").
		Description("All projects with their status and dates").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			projects, err := t.projectList(ctx, struct{}{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, projects)
		})

	srv.Resource("cmt://notifications/unread").
		Name("Unread notifications").
		Description("Unread notifications of the current user").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			unread, err := t.notificationUnread(ctx, struct{}{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, unread)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
