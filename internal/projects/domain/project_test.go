package domain

import (
	"testing"
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	t.Run("unknown status falls back to active", func(t *testing.T) {
		p, err := NewProject("P1", "", days(0), nil, "dormant", nil)
		require.NoError(t, err)
		assert.Equal(t, ProjectActive, p.Status())
	})

	t.Run("keeps known status", func(t *testing.T) {
		p, err := NewProject("P1", "", nil, nil, "on_hold", nil)
		require.NoError(t, err)
		assert.Equal(t, ProjectOnHold, p.Status())
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := NewProject("  ", "", nil, nil, "", nil)
		assert.True(t, sharedDomain.IsValidation(err))
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewProject("P1", "", days(5), days(1), "", nil)
		assert.True(t, sharedDomain.IsValidation(err))
	})
}

func TestProject_Apply(t *testing.T) {
	owner := uuid.New()
	p, err := NewProject("P1", "desc", days(0), nil, "", &owner)
	require.NoError(t, err)
	p.ClearDomainEvents()

	_, err = p.Apply(ProjectUpdate{Status: sharedDomain.Some("dormant")})
	assert.True(t, sharedDomain.IsValidation(err))

	fields, err := p.Apply(ProjectUpdate{Status: sharedDomain.Some("completed"), ExpectedEndDate: sharedDomain.Some(*days(30))})
	require.NoError(t, err)
	assert.Equal(t, []string{"expected_end_date", "status"}, fields)
	assert.Equal(t, ProjectCompleted, p.Status())
	assert.Equal(t, "desc", p.Description())
	require.Len(t, p.DomainEvents(), 1)
	assert.Equal(t, &owner, p.DomainEvents()[0].(ProjectUpdated).CreatedBy)

	_, err = p.Apply(ProjectUpdate{StartDate: sharedDomain.Some(*days(60))})
	assert.True(t, sharedDomain.IsValidation(err))
}

func TestProject_Serialize(t *testing.T) {
	start := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	p, err := NewProject("P1", "", &start, nil, "", nil)
	require.NoError(t, err)

	out := p.Serialize()
	assert.Equal(t, "2025-01-05", *out["start_date"].(*string))
	assert.Nil(t, out["expected_end_date"].(*string))
	assert.Equal(t, "active", out["status"])
}

func TestActiveMilestone(t *testing.T) {
	projectID := uuid.New()
	done, err := NewMilestone(projectID, "Done", days(1), "", MilestoneCompleted)
	require.NoError(t, err)
	next, err := NewMilestone(projectID, "Next", days(2), "", MilestoneInProgress)
	require.NoError(t, err)
	later, err := NewMilestone(projectID, "Later", days(3), "", MilestoneNotStarted)
	require.NoError(t, err)

	assert.Same(t, next, ActiveMilestone([]*Milestone{done, next, later}))
	assert.Nil(t, ActiveMilestone([]*Milestone{done}))
	assert.Nil(t, ActiveMilestone(nil))
}
