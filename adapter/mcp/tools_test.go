package mcp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
	"github.com/MohamedAbusurra/CS438class/internal/app"
	identityCommands "github.com/MohamedAbusurra/CS438class/internal/identity/application/commands"
	projectCommands "github.com/MohamedAbusurra/CS438class/internal/projects/application/commands"
	"github.com/MohamedAbusurra/CS438class/pkg/config"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

func newTestToolset(t *testing.T) *toolset {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.SQLitePath = filepath.Join(dir, "cmt.db")
	cfg.StorageDir = filepath.Join(dir, "files")

	c, err := app.NewContainer(context.Background(), cfg, observability.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	u, err := c.RegisterUser.Handle(context.Background(), identityCommands.RegisterUserCommand{
		Username: "lead",
		Email:    "lead@example.com",
		Password: "Passw0rdX",
		Role:     "project_manager",
	})
	require.NoError(t, err)

	a := cli.NewApp(c, observability.DiscardLogger())
	a.CurrentUserID = u.ID()
	return &toolset{app: a}
}

func TestRegisterCLITools_ListTools(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "test",
		Version: "1.0.0",
		Capabilities: mcp.Capabilities{
			Tools: true,
		},
	})

	require.NoError(t, RegisterCLITools(srv, ToolDependencies{App: &cli.App{}}))

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	names := make(map[any]bool, len(tools))
	for _, tool := range tools {
		names[tool["name"]] = true
	}
	for _, want := range []string{
		"project.list", "project.progress",
		"milestone.recompute", "milestone.active",
		"task.create", "task.update",
		"report.request", "report.status",
		"notification.unread",
	} {
		assert.True(t, names[want], "%s should be registered", want)
	}
}

func TestRegisterCLITools_RequiresApp(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{Name: "test", Version: "1.0.0"})
	require.Error(t, RegisterCLITools(srv, ToolDependencies{}))
	require.Error(t, RegisterCLITools(nil, ToolDependencies{App: &cli.App{}}))
}

func TestTools_WithoutContainer(t *testing.T) {
	ts := &toolset{app: &cli.App{}}
	_, err := ts.projectList(context.Background(), struct{}{})
	require.Error(t, err)
}

func TestTools_MilestoneProgressFlow(t *testing.T) {
	ctx := context.Background()
	ts := newTestToolset(t)
	c := ts.app.Container

	project, err := c.CreateProject.Handle(ctx, projectCommands.CreateProjectCommand{Name: "Apollo"})
	require.NoError(t, err)
	due := time.Now().AddDate(0, 1, 0)
	milestone, err := c.AddMilestone.Handle(ctx, projectCommands.AddMilestoneCommand{
		ProjectID: project.ProjectID,
		Title:     "Design",
		DueDate:   &due,
	})
	require.NoError(t, err)

	projects, err := ts.projectList(ctx, struct{}{})
	require.NoError(t, err)
	require.Len(t, projects, 1)

	task, err := ts.taskCreate(ctx, taskCreateInput{
		ProjectID:   project.ProjectID.String(),
		Title:       "Wireframes",
		MilestoneID: milestone.MilestoneID.String(),
		DueDate:     "2030-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "not_begun", task["status"])

	_, err = ts.taskCreate(ctx, taskCreateInput{ProjectID: project.ProjectID.String()})
	require.Error(t, err, "title is required")

	active, err := ts.milestoneActive(ctx, projectIDInput{ProjectID: project.ProjectID.String()})
	require.NoError(t, err)
	require.NotNil(t, active.Milestone)
	assert.Equal(t, "Design", active.Milestone["title"])

	finished := "finished"
	empty := ""
	updated, err := ts.taskUpdate(ctx, taskUpdateInput{
		TaskID:  task["id"].(string),
		Status:  &finished,
		DueDate: &empty,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"status", "due_date"}, updated.UpdatedFields)
	assert.Nil(t, updated.Task["due_date"])

	recomputed, err := ts.milestoneRecompute(ctx, milestoneIDInput{MilestoneID: milestone.MilestoneID.String()})
	require.NoError(t, err)
	assert.Equal(t, 100.0, recomputed.CompletionPercentage)
	assert.Equal(t, "completed", recomputed.Status)

	progress, err := ts.projectProgress(ctx, projectProgressInput{ProjectID: project.ProjectID.String(), Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, 100.0, progress.Overall)

	active, err = ts.milestoneActive(ctx, projectIDInput{ProjectID: project.ProjectID.String()})
	require.NoError(t, err)
	assert.Nil(t, active.Milestone)

	_, err = ts.milestoneRecompute(ctx, milestoneIDInput{MilestoneID: "not-a-uuid"})
	require.Error(t, err)
}

func TestTools_ReportAndNotifications(t *testing.T) {
	ctx := context.Background()
	ts := newTestToolset(t)

	project, err := ts.app.Container.CreateProject.Handle(ctx, projectCommands.CreateProjectCommand{Name: "Apollo"})
	require.NoError(t, err)

	report, err := ts.reportRequest(ctx, reportRequestInput{ProjectID: project.ProjectID.String()})
	require.NoError(t, err)

	status, err := ts.reportStatus(ctx, reportIDInput{ReportID: report["id"].(string)})
	require.NoError(t, err)
	assert.Equal(t, "completed", status["status"])

	unread, err := ts.notificationUnread(ctx, struct{}{})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "Report ready", unread[0]["title"])
}
