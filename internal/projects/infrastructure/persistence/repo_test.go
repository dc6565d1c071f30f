package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/dbtest"
)

func TestProjectRepository(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := NewProjectRepository(conn)
	owner := uuid.New()
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	p, err := domain.NewProject("Apollo", "moon", &start, nil, "pending", &owner)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	loaded, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "Apollo", loaded.Name())
	assert.Equal(t, domain.ProjectPending, loaded.Status())
	assert.True(t, start.Equal(*loaded.StartDate()))
	assert.Nil(t, loaded.ExpectedEndDate())
	assert.Equal(t, owner, *loaded.CreatedBy())

	_, err = loaded.Apply(domain.ProjectUpdate{Name: sharedDomain.Some("Artemis")})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, loaded))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Artemis", all[0].Name())

	assert.NoError(t, repo.EnsureExists(ctx, p.ID()))
	assert.ErrorIs(t, repo.EnsureExists(ctx, uuid.New()), domain.ErrProjectNotFound)

	require.NoError(t, repo.Delete(ctx, p.ID()))
	_, err = repo.FindByID(ctx, p.ID())
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID()), domain.ErrProjectNotFound)
}

func TestMilestoneRepository(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := NewMilestoneRepository(conn)
	projectID := dbtest.InsertProject(t, conn, "P1")

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for _, offset := range []int{20, 5, 10} {
		due := base.AddDate(0, 0, offset)
		m, err := domain.NewMilestone(projectID, "Milestone", &due, "", domain.MilestoneNotStarted)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, m))
		ids = append(ids, m.ID())
	}

	list, err := repo.FindByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uuid.UUID{ids[1], ids[2], ids[0]}, []uuid.UUID{list[0].ID(), list[1].ID(), list[2].ID()})
	assert.True(t, base.AddDate(0, 0, 5).Equal(list[0].DueDate()))

	m := list[0]
	m.RecomputeCompletion(base)
	require.NoError(t, repo.Save(ctx, m))

	loaded, err := repo.FindByID(ctx, m.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneNotStarted, loaded.Status())
	assert.Equal(t, 0.0, loaded.CompletionPercentage())

	t.Run("ensure in project", func(t *testing.T) {
		other := dbtest.InsertProject(t, conn, "P2")
		assert.NoError(t, repo.EnsureInProject(ctx, m.ID(), projectID))
		assert.ErrorIs(t, repo.EnsureInProject(ctx, m.ID(), other), domain.ErrMilestoneProjectMismatch)
		assert.ErrorIs(t, repo.EnsureInProject(ctx, uuid.New(), projectID), domain.ErrMilestoneNotFound)
	})

	require.NoError(t, repo.Delete(ctx, m.ID()))
	_, err = repo.FindByID(ctx, m.ID())
	assert.ErrorIs(t, err, domain.ErrMilestoneNotFound)
}
