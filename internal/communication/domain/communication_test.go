package domain

import (
	"testing"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	from, to := uuid.New(), uuid.New()

	m, err := NewMessage(from, to, "hello", nil)
	require.NoError(t, err)
	assert.False(t, m.IsRead())
	m.MarkRead()
	m.MarkRead()
	assert.True(t, m.IsRead())
	assert.Nil(t, m.Serialize()["project_id"])

	_, err = NewMessage(from, to, "   ", nil)
	assert.True(t, sharedDomain.IsValidation(err))
	_, err = NewMessage(uuid.Nil, to, "hi", nil)
	assert.True(t, sharedDomain.IsValidation(err))
}

func TestParseNotificationType(t *testing.T) {
	kind, ok := ParseNotificationType("milestone_completed")
	assert.True(t, ok)
	assert.Equal(t, TypeMilestoneCompleted, kind)

	kind, ok = ParseNotificationType("party")
	assert.False(t, ok)
	assert.Equal(t, TypeCustom, kind)
}

func TestNewNotification(t *testing.T) {
	user := uuid.New()

	t.Run("invalid type becomes custom", func(t *testing.T) {
		n, err := NewNotification(NewNotificationParams{UserID: user, Title: "Hi", Type: "bogus"})
		require.NoError(t, err)
		assert.Equal(t, TypeCustom, n.Type())
	})

	t.Run("title required", func(t *testing.T) {
		_, err := NewNotification(NewNotificationParams{UserID: user, Type: TypeCustom})
		assert.True(t, sharedDomain.IsValidation(err))
	})
}

func TestNotification_Link(t *testing.T) {
	user, project, milestone, task := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name   string
		params NewNotificationParams
		want   string
	}{
		{"task wins", NewNotificationParams{ProjectID: &project, MilestoneID: &milestone, TaskID: &task}, "/task/" + task.String()},
		{"milestone over project", NewNotificationParams{ProjectID: &project, MilestoneID: &milestone}, "/milestone/" + milestone.String()},
		{"project", NewNotificationParams{ProjectID: &project}, "/project/" + project.String()},
		{"nothing", NewNotificationParams{}, "#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.UserID = user
			tt.params.Title = "x"
			n, err := NewNotification(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Link())
			assert.Equal(t, tt.want, n.Serialize()["link"])
		})
	}
}
