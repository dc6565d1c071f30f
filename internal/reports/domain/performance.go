package domain

import (
	"sort"
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/google/uuid"
)

// Unassigned is shown for tasks without an assignee or with an unknown one.
const Unassigned = "Unassigned"

// TaskLine is one task row in a report section.
type TaskLine struct {
	Title    string
	Assignee string
	DueDate  *time.Time
}

// Contribution counts finished tasks for one assignee.
type Contribution struct {
	UserID    uuid.UUID
	Name      string
	Completed int
}

// PerformanceReport is the content of a performance report before rendering.
// A nil section was excluded by the filters; an empty one has no entries.
type PerformanceReport struct {
	ProjectID       uuid.UUID
	ProjectName     string
	GeneratedOn     time.Time
	CompletedTasks  []TaskLine
	MissedDeadlines []TaskLine
	Contributions   []Contribution

	IncludeCompleted     bool
	IncludeMissed        bool
	IncludeContributions bool
}

// BuildPerformanceReport groups a project's tasks into the report sections.
// A task misses its deadline when its due date is before today and it is
// not finished. Contributions only count assignees present in usernames.
func BuildPerformanceReport(
	projectID uuid.UUID,
	projectName string,
	tasks []*taskDomain.Task,
	usernames map[uuid.UUID]string,
	today time.Time,
	filters Filters,
) PerformanceReport {
	today = sharedDomain.Today(today)
	report := PerformanceReport{
		ProjectID:            projectID,
		ProjectName:          projectName,
		GeneratedOn:          today,
		IncludeCompleted:     filters.Bool(FilterIncludeCompletedTasks, true),
		IncludeMissed:        filters.Bool(FilterIncludeMissedDeadline, true),
		IncludeContributions: filters.Bool(FilterIncludeContributions, true),
	}

	counts := make(map[uuid.UUID]*Contribution)
	for _, t := range tasks {
		line := TaskLine{Title: t.Title(), Assignee: assigneeName(t, usernames), DueDate: t.DueDate()}
		if t.IsFinished() {
			report.CompletedTasks = append(report.CompletedTasks, line)
		}
		if t.IsOverdue(today) {
			report.MissedDeadlines = append(report.MissedDeadlines, line)
		}
		if !t.IsFinished() || t.AssignedTo() == nil {
			continue
		}
		id := *t.AssignedTo()
		name, ok := usernames[id]
		if !ok {
			continue
		}
		c, ok := counts[id]
		if !ok {
			c = &Contribution{UserID: id, Name: name}
			counts[id] = c
		}
		c.Completed++
	}

	for _, c := range counts {
		report.Contributions = append(report.Contributions, *c)
	}
	sort.Slice(report.Contributions, func(i, j int) bool {
		if report.Contributions[i].Completed != report.Contributions[j].Completed {
			return report.Contributions[i].Completed > report.Contributions[j].Completed
		}
		return report.Contributions[i].Name < report.Contributions[j].Name
	})
	return report
}

// AssigneeIDs returns the distinct assignees of tasks.
func AssigneeIDs(tasks []*taskDomain.Task) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, t := range tasks {
		if t.AssignedTo() == nil {
			continue
		}
		if _, ok := seen[*t.AssignedTo()]; ok {
			continue
		}
		seen[*t.AssignedTo()] = struct{}{}
		ids = append(ids, *t.AssignedTo())
	}
	return ids
}

func assigneeName(t *taskDomain.Task, usernames map[uuid.UUID]string) string {
	if t.AssignedTo() == nil {
		return Unassigned
	}
	if name, ok := usernames[*t.AssignedTo()]; ok {
		return name
	}
	return Unassigned
}
