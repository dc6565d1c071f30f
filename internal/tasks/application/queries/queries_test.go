package queries

import (
	"context"
	"testing"

	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/dbtest"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/MohamedAbusurra/CS438class/internal/tasks/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasksHandler_Handle(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := persistence.NewTaskRepository(conn)
	projectID := dbtest.InsertProject(t, conn, "P")
	alice := uuid.New()

	for _, p := range []domain.NewTaskParams{
		{Title: "a", ProjectID: projectID, Importance: "high", AssignedTo: &alice},
		{Title: "b", ProjectID: projectID, Status: "finished"},
		{Title: "c", ProjectID: projectID, Status: "finished", AssignedTo: &alice},
	} {
		task, err := domain.NewTask(p)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, task))
	}
	handler := NewListTasksHandler(repo)

	all, err := handler.Handle(ctx, ListTasksQuery{ProjectID: projectID})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	finished, err := handler.Handle(ctx, ListTasksQuery{ProjectID: projectID, Status: "finished", AssignedTo: &alice})
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, "c", finished[0]["title"])

	high, err := handler.Handle(ctx, ListTasksQuery{ProjectID: projectID, HighOnly: true})
	require.NoError(t, err)
	require.Len(t, high, 1)

	_, err = handler.Handle(ctx, ListTasksQuery{ProjectID: projectID, Status: "paused"})
	assert.Error(t, err)
}

func TestGetTaskHandler_Handle(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := persistence.NewTaskRepository(conn)

	task, err := domain.NewTask(domain.NewTaskParams{Title: "one", ProjectID: dbtest.InsertProject(t, conn, "P")})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, task))

	out, err := NewGetTaskHandler(repo).Handle(ctx, GetTaskQuery{TaskID: task.ID()})
	require.NoError(t, err)
	assert.Equal(t, task.ID().String(), out["id"])

	_, err = NewGetTaskHandler(repo).Handle(ctx, GetTaskQuery{TaskID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
