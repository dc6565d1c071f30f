package domain

import (
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
)

// Importance flags how urgent a task is.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceNormal Importance = "normal"
)

// IsValid returns true if the importance is a known value.
func (i Importance) IsValid() bool {
	return i == ImportanceHigh || i == ImportanceNormal
}

// ParseImportance validates s. An empty string selects normal.
func ParseImportance(s string) (Importance, error) {
	if s == "" {
		return ImportanceNormal, nil
	}
	i := Importance(s)
	if !i.IsValid() {
		return "", sharedDomain.NewValidationError("importance", "invalid importance %q, use one of: high, normal", s)
	}
	return i, nil
}

// Status is the lifecycle state of a task.
type Status string

const (
	StatusNotBegun   Status = "not_begun"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotBegun, StatusInProgress, StatusFinished:
		return true
	}
	return false
}

// ParseStatus validates s. An empty string selects not_begun.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusNotBegun, nil
	}
	st := Status(s)
	if !st.IsValid() {
		return "", sharedDomain.NewValidationError("status", "invalid status %q, use one of: not_begun, in_progress, finished", s)
	}
	return st, nil
}
