package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	"github.com/MohamedAbusurra/CS438class/internal/projects/infrastructure/persistence"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/dbtest"
	taskCommands "github.com/MohamedAbusurra/CS438class/internal/tasks/application/commands"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	taskPersistence "github.com/MohamedAbusurra/CS438class/internal/tasks/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

type noFiles struct{}

func (noFiles) UnlinkProject(context.Context, uuid.UUID) (int64, error) { return 0, nil }

// Project P1 starts today, milestone M1 is due in ten days and carries
// three tasks in different states.
func TestScenario_MilestoneAggregation(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	uow := database.NewUnitOfWork(conn)
	clock := sharedDomain.FixedClock{At: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	today := clock.Now()
	metrics := observability.NewInMemoryMetrics()
	pub := &recordingPublisher{}

	projectRepo := persistence.NewProjectRepository(conn)
	milestoneRepo := persistence.NewMilestoneRepository(conn)
	taskRepo := taskPersistence.NewTaskRepository(conn)

	project, err := NewCreateProjectHandler(projectRepo, uow, nil, nil).Handle(ctx, CreateProjectCommand{Name: "P1", StartDate: &today})
	require.NoError(t, err)

	due := today.AddDate(0, 0, 10)
	ms, err := NewAddMilestoneHandler(projectRepo, milestoneRepo, uow, nil).Handle(ctx, AddMilestoneCommand{
		ProjectID: project.ProjectID,
		Title:     "M1",
		DueDate:   &due,
	})
	require.Error(t, err, "two-character title is too short")
	assert.True(t, sharedDomain.IsValidation(err))

	ms, err = NewAddMilestoneHandler(projectRepo, milestoneRepo, uow, nil).Handle(ctx, AddMilestoneCommand{
		ProjectID: project.ProjectID,
		Title:     "M1 - beta",
		DueDate:   &due,
	})
	require.NoError(t, err)

	createTask := taskCommands.NewCreateTaskHandler(taskRepo, projectRepo, milestoneRepo, uow, nil, nil)
	var taskIDs []uuid.UUID
	for _, status := range []string{"finished", "in_progress", "not_begun"} {
		res, err := createTask.Handle(ctx, taskCommands.CreateTaskCommand{
			Title:       "task " + status,
			ProjectID:   project.ProjectID,
			Status:      status,
			MilestoneID: &ms.MilestoneID,
		})
		require.NoError(t, err)
		taskIDs = append(taskIDs, res.TaskID)
	}

	recompute := NewRecomputeMilestoneHandler(milestoneRepo, taskRepo, uow, clock, pub, metrics, nil)
	first, err := recompute.Handle(ctx, RecomputeMilestoneCommand{MilestoneID: ms.MilestoneID})
	require.NoError(t, err)
	assert.InDelta(t, 33.33, first.CompletionPercentage, 0.01)
	assert.Equal(t, domain.MilestoneInProgress, first.Status)

	updateTask := taskCommands.NewUpdateTaskHandler(taskRepo, milestoneRepo, uow, nil, nil)
	for _, id := range taskIDs {
		_, err := updateTask.Handle(ctx, taskCommands.UpdateTaskCommand{
			TaskID: id,
			Update: taskDomain.Update{Status: sharedDomain.Some("finished")},
		})
		require.NoError(t, err)
	}

	stale, err := milestoneRepo.FindByID(ctx, ms.MilestoneID)
	require.NoError(t, err)
	assert.InDelta(t, 33.33, stale.CompletionPercentage(), 0.01, "task edits do not refresh the stored percentage")

	second, err := recompute.Handle(ctx, RecomputeMilestoneCommand{MilestoneID: ms.MilestoneID})
	require.NoError(t, err)
	assert.Equal(t, 100.0, second.CompletionPercentage)
	assert.Equal(t, domain.MilestoneCompleted, second.Status)
	assert.Equal(t, []string{domain.RoutingKeyMilestoneCompleted}, pub.keys)
	assert.Equal(t, int64(1), metrics.CounterValue(observability.MetricMilestonesRecomputed, observability.T("status", "completed")))

	progress := NewUpdateMilestoneProgressHandler(milestoneRepo, taskRepo, uow, clock, nil, nil, nil)
	assert.True(t, progress.Handle(ctx, UpdateMilestoneProgressCommand{ProjectID: project.ProjectID}))

	_, err = NewDeleteMilestoneHandler(milestoneRepo, taskRepo, uow).Handle(ctx, DeleteMilestoneCommand{MilestoneID: ms.MilestoneID})
	require.NoError(t, err)
	for _, id := range taskIDs {
		task, err := taskRepo.FindByID(ctx, id)
		require.NoError(t, err, "deleting a milestone keeps its tasks")
		assert.Nil(t, task.MilestoneID())
	}

	require.NoError(t, NewDeleteProjectHandler(projectRepo, noFiles{}, uow, nil).Handle(ctx, DeleteProjectCommand{ProjectID: project.ProjectID}))
	_, err = projectRepo.FindByID(ctx, project.ProjectID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestLinkTaskHandler(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	uow := database.NewUnitOfWork(conn)
	milestoneRepo := persistence.NewMilestoneRepository(conn)
	taskRepo := taskPersistence.NewTaskRepository(conn)

	p1 := dbtest.InsertProject(t, conn, "P1")
	p2 := dbtest.InsertProject(t, conn, "P2")
	m1 := dbtest.InsertMilestone(t, conn, p1, time.Now().AddDate(0, 0, 3))
	m2 := dbtest.InsertMilestone(t, conn, p2, time.Now().AddDate(0, 0, 3))

	task, err := taskDomain.NewTask(taskDomain.NewTaskParams{Title: "t", ProjectID: p1})
	require.NoError(t, err)
	require.NoError(t, taskRepo.Save(ctx, task))

	handler := NewLinkTaskHandler(milestoneRepo, taskRepo, uow)

	require.NoError(t, handler.Handle(ctx, LinkTaskCommand{TaskID: task.ID(), MilestoneID: &m1}))
	linked, err := taskRepo.FindByMilestone(ctx, m1)
	require.NoError(t, err)
	assert.Len(t, linked, 1)

	err = handler.Handle(ctx, LinkTaskCommand{TaskID: task.ID(), MilestoneID: &m2})
	assert.ErrorIs(t, err, domain.ErrMilestoneProjectMismatch)

	require.NoError(t, handler.Handle(ctx, LinkTaskCommand{TaskID: task.ID()}))
	linked, err = taskRepo.FindByMilestone(ctx, m1)
	require.NoError(t, err)
	assert.Empty(t, linked)
}

// A task of project A must not count toward a milestone of project B.
func TestScenario_CrossProjectMilestoneRejected(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	uow := database.NewUnitOfWork(conn)
	clock := sharedDomain.FixedClock{At: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}

	projectRepo := persistence.NewProjectRepository(conn)
	milestoneRepo := persistence.NewMilestoneRepository(conn)
	taskRepo := taskPersistence.NewTaskRepository(conn)

	a := dbtest.InsertProject(t, conn, "A")
	b := dbtest.InsertProject(t, conn, "B")
	mb := dbtest.InsertMilestone(t, conn, b, clock.Now().AddDate(0, 0, 10))

	createTask := taskCommands.NewCreateTaskHandler(taskRepo, projectRepo, milestoneRepo, uow, nil, nil)
	updateTask := taskCommands.NewUpdateTaskHandler(taskRepo, milestoneRepo, uow, nil, nil)

	t.Run("create", func(t *testing.T) {
		_, err := createTask.Handle(ctx, taskCommands.CreateTaskCommand{
			Title:       "finished in A",
			ProjectID:   a,
			Status:      "finished",
			MilestoneID: &mb,
		})
		assert.ErrorIs(t, err, domain.ErrMilestoneProjectMismatch)

		tasks, err := taskRepo.FindByProject(ctx, a)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("update", func(t *testing.T) {
		res, err := createTask.Handle(ctx, taskCommands.CreateTaskCommand{Title: "open in A", ProjectID: a})
		require.NoError(t, err)

		_, err = updateTask.Handle(ctx, taskCommands.UpdateTaskCommand{
			TaskID: res.TaskID,
			Update: taskDomain.Update{MilestoneID: sharedDomain.Some(mb)},
		})
		assert.ErrorIs(t, err, domain.ErrMilestoneProjectMismatch)

		stored, err := taskRepo.FindByID(ctx, res.TaskID)
		require.NoError(t, err)
		assert.Nil(t, stored.MilestoneID())
	})

	recompute := NewRecomputeMilestoneHandler(milestoneRepo, taskRepo, uow, clock, nil, nil, nil)
	result, err := recompute.Handle(ctx, RecomputeMilestoneCommand{MilestoneID: mb})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.CompletionPercentage)
	assert.Equal(t, domain.MilestoneNotStarted, result.Status)

	_, err = createTask.Handle(ctx, taskCommands.CreateTaskCommand{Title: "in B", ProjectID: b, MilestoneID: &mb})
	require.NoError(t, err, "same-project milestone is accepted")
}
