package queries

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	"github.com/MohamedAbusurra/CS438class/internal/projects/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/dbtest"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	taskPersistence "github.com/MohamedAbusurra/CS438class/internal/tasks/infrastructure/persistence"
)

type failingTasks struct {
	taskDomain.Repository
}

func (failingTasks) FindByProject(context.Context, uuid.UUID) ([]*taskDomain.Task, error) {
	return nil, errors.New("relation broken")
}

func TestProjectLookups_FailSoft(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	broken := func(context.Context, uuid.UUID) ([]map[string]any, error) { return nil, errors.New("boom") }
	lookups := NewProjectLookups(failingTasks{}, broken, nil, logger)
	ctx := context.Background()
	projectID := uuid.New()

	tasks := lookups.GetTasks(ctx, projectID)
	files := lookups.GetFiles(ctx, projectID)
	reports := lookups.GetReports(ctx, projectID)

	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.NotNil(t, files)
	assert.Empty(t, files)
	assert.NotNil(t, reports)
	assert.Contains(t, buf.String(), "lookup=tasks")
	assert.Contains(t, buf.String(), "lookup=files")
}

func TestProjectLookups_PassesThrough(t *testing.T) {
	rows := []map[string]any{{"id": "f1"}}
	lookups := NewProjectLookups(nil, func(context.Context, uuid.UUID) ([]map[string]any, error) { return rows, nil }, nil, nil)

	assert.Equal(t, rows, lookups.GetFiles(context.Background(), uuid.New()))
}

func TestMilestoneQueries(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	milestoneRepo := persistence.NewMilestoneRepository(conn)
	taskRepo := taskPersistence.NewTaskRepository(conn)
	projectID := dbtest.InsertProject(t, conn, "P1")
	q := NewMilestoneQueries(milestoneRepo, taskRepo)

	active, err := q.GetActiveMilestone(ctx, projectID)
	require.NoError(t, err)
	assert.Nil(t, active)

	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(title string, offset int, status domain.MilestoneStatus) *domain.Milestone {
		due := base.AddDate(0, 0, offset)
		m, err := domain.NewMilestone(projectID, title, &due, "", status)
		require.NoError(t, err)
		require.NoError(t, milestoneRepo.Save(ctx, m))
		return m
	}
	late := mk("Late one", 30, domain.MilestoneNotStarted)
	done := mk("Done one", 1, domain.MilestoneCompleted)
	next := mk("Next one", 10, domain.MilestoneInProgress)

	mid := next.ID()
	task, err := taskDomain.NewTask(taskDomain.NewTaskParams{Title: "t", ProjectID: projectID, MilestoneID: &mid})
	require.NoError(t, err)
	require.NoError(t, taskRepo.Save(ctx, task))

	list, err := q.GetMilestones(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []any{done.ID().String(), next.ID().String(), late.ID().String()},
		[]any{list[0]["id"], list[1]["id"], list[2]["id"]})

	active, err = q.GetActiveMilestone(ctx, projectID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, next.ID().String(), active["id"])
	assert.Equal(t, []string{task.ID().String()}, active["tasks"])

	tasks, err := q.ListTasks(ctx, next.ID())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	_, err = q.GetMilestone(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrMilestoneNotFound)
}

func TestProjectProgressHandler(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	projectRepo := persistence.NewProjectRepository(conn)
	milestoneRepo := persistence.NewMilestoneRepository(conn)

	p, err := domain.NewProject("P1", "", nil, nil, "", nil)
	require.NoError(t, err)
	require.NoError(t, projectRepo.Save(ctx, p))

	due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	m, err := domain.NewMilestone(p.ID(), "Only", &due, "", domain.MilestoneNotStarted)
	require.NoError(t, err)
	require.NoError(t, milestoneRepo.Save(ctx, m))

	progress, err := NewProjectProgressHandler(projectRepo, milestoneRepo).Handle(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "P1", progress.Name)
	require.Len(t, progress.Milestones, 1)
	assert.Equal(t, "2030-01-01", progress.Milestones[0].DueDate)
	assert.Equal(t, m.ID(), *progress.ActiveMilestone)
	assert.Equal(t, 0.0, progress.Overall)

	_, err = NewProjectProgressHandler(projectRepo, milestoneRepo).Handle(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}
