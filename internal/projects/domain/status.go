package domain

// ProjectStatus is the lifecycle status of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectPending   ProjectStatus = "pending"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCancelled ProjectStatus = "cancelled"
)

// IsValid returns true if the status is a known value.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectPending, ProjectOnHold, ProjectCancelled:
		return true
	}
	return false
}

// ParseProjectStatus never fails: unknown values fall back to active.
func ParseProjectStatus(s string) ProjectStatus {
	status := ProjectStatus(s)
	if !status.IsValid() {
		return ProjectActive
	}
	return status
}

// MilestoneStatus is derived from task completion and the due date.
type MilestoneStatus string

const (
	MilestoneNotStarted MilestoneStatus = "not_started"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneDelayed    MilestoneStatus = "delayed"
)

// IsValid returns true if the status is a known value.
func (s MilestoneStatus) IsValid() bool {
	switch s {
	case MilestoneNotStarted, MilestoneInProgress, MilestoneCompleted, MilestoneDelayed:
		return true
	}
	return false
}

// ParseMilestoneStatus returns not_started and false for unknown input.
// An empty string is accepted as not_started.
func ParseMilestoneStatus(s string) (MilestoneStatus, bool) {
	if s == "" {
		return MilestoneNotStarted, true
	}
	status := MilestoneStatus(s)
	if !status.IsValid() {
		return MilestoneNotStarted, false
	}
	return status, true
}
