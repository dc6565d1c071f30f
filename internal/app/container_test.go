package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityCommands "github.com/MohamedAbusurra/CS438class/internal/identity/application/commands"
	projectCommands "github.com/MohamedAbusurra/CS438class/internal/projects/application/commands"
	reportCommands "github.com/MohamedAbusurra/CS438class/internal/reports/application/commands"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/MohamedAbusurra/CS438class/pkg/config"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.SQLitePath = filepath.Join(dir, "cmt.db")
	cfg.StorageDir = filepath.Join(dir, "files")

	c, err := NewContainer(context.Background(), cfg, observability.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewContainer_LocalMode(t *testing.T) {
	c := newTestContainer(t)

	assert.Equal(t, database.DriverSQLite, c.DB.Driver())
	assert.NotNil(t, c.Bus, "without RabbitMQ events stay in-process")
	assert.Nil(t, c.RedisClient)
	assert.Len(t, c.Subscribers(), 2)

	applied, err := c.Migrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied, "migrations already ran on open")
}

func TestNewContainer_UnknownStorageBackend(t *testing.T) {
	cfg := config.Defaults()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "cmt.db")
	cfg.StorageBackend = "ftp"

	_, err := NewContainer(context.Background(), cfg, observability.DiscardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage backend")
}

func TestContainer_ReportFlowInProcess(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t)

	user, err := c.RegisterUser.Handle(ctx, identityCommands.RegisterUserCommand{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "Passw0rdX",
		Role:     "project_manager",
	})
	require.NoError(t, err)
	userID := user.ID()

	project, err := c.CreateProject.Handle(ctx, projectCommands.CreateProjectCommand{
		Name:      "Apollo",
		CreatedBy: &userID,
	})
	require.NoError(t, err)

	report, err := c.RequestReport.Handle(ctx, reportCommands.RequestReportCommand{
		ProjectID: project.ProjectID,
		CreatedBy: &userID,
	})
	require.NoError(t, err)

	// The in-process bus runs generation before Handle returns.
	status, err := c.Reports.GetReportStatus(ctx, report.ReportID)
	require.NoError(t, err)
	assert.Equal(t, "completed", status["status"])
	assert.Equal(t, 100, status["progress"])

	unread := c.Notifications.GetUnreadNotifications(ctx, userID)
	require.Len(t, unread, 1)
	assert.Equal(t, "Report ready", unread[0].Title())
}
