package domain

import (
	"testing"
	"time"

	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTime() time.Time {
	return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
}

func reportTask(t *testing.T, projectID uuid.UUID, title, status string, due *time.Time, assignee *uuid.UUID) *taskDomain.Task {
	t.Helper()
	task, err := taskDomain.NewTask(taskDomain.NewTaskParams{
		Title:      title,
		ProjectID:  projectID,
		Status:     status,
		DueDate:    due,
		AssignedTo: assignee,
	})
	require.NoError(t, err)
	return task
}

func TestBuildPerformanceReport(t *testing.T) {
	projectID := uuid.New()
	alice, bob, ghost := uuid.New(), uuid.New(), uuid.New()
	past := fixedTime().AddDate(0, 0, -3)
	future := fixedTime().AddDate(0, 0, 3)

	tasks := []*taskDomain.Task{
		reportTask(t, projectID, "Design", "finished", &past, &alice),
		reportTask(t, projectID, "Build", "finished", nil, &alice),
		reportTask(t, projectID, "Test", "finished", &future, &bob),
		reportTask(t, projectID, "Docs", "in_progress", &past, &bob),
		reportTask(t, projectID, "Ship", "not_begun", &future, nil),
		reportTask(t, projectID, "Audit", "finished", nil, &ghost),
	}
	names := map[uuid.UUID]string{alice: "alice", bob: "bob"}

	report := BuildPerformanceReport(projectID, "P1", tasks, names, fixedTime(), nil)

	assert.Equal(t, "P1", report.ProjectName)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), report.GeneratedOn)
	assert.True(t, report.IncludeCompleted)
	assert.True(t, report.IncludeMissed)
	assert.True(t, report.IncludeContributions)

	require.Len(t, report.CompletedTasks, 4)
	assert.Equal(t, Unassigned, report.CompletedTasks[3].Assignee)

	require.Len(t, report.MissedDeadlines, 1)
	assert.Equal(t, "Docs", report.MissedDeadlines[0].Title)
	assert.Equal(t, "bob", report.MissedDeadlines[0].Assignee)

	assert.Equal(t, []Contribution{
		{UserID: alice, Name: "alice", Completed: 2},
		{UserID: bob, Name: "bob", Completed: 1},
	}, report.Contributions)
}

func TestBuildPerformanceReport_Filters(t *testing.T) {
	report := BuildPerformanceReport(uuid.New(), "P1", nil, nil, fixedTime(), Filters{
		FilterIncludeCompletedTasks: false,
		FilterIncludeContributions:  "yes",
	})
	assert.False(t, report.IncludeCompleted)
	assert.True(t, report.IncludeMissed)
	assert.True(t, report.IncludeContributions)
	assert.Empty(t, report.CompletedTasks)
}

func TestAssigneeIDs(t *testing.T) {
	projectID, a := uuid.New(), uuid.New()
	tasks := []*taskDomain.Task{
		reportTask(t, projectID, "one", "", nil, &a),
		reportTask(t, projectID, "two", "", nil, &a),
		reportTask(t, projectID, "three", "", nil, nil),
	}
	assert.Equal(t, []uuid.UUID{a}, AssigneeIDs(tasks))
}
