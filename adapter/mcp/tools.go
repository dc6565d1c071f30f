package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// toolset holds the tool implementations so they can be called without a
// transport.
type toolset struct {
	app *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	t := &toolset{app: deps.App}
	registerProjectTools(srv, t)
	registerTaskTools(srv, t)
	registerReportTools(srv, t)
	return nil
}

func (t *toolset) ready() error {
	if t.app == nil || t.app.Container == nil {
		return errors.New("tool requires database connection")
	}
	return nil
}
