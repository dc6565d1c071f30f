package domain

import "errors"

var (
	// ErrProjectNotFound indicates the requested project was not found.
	ErrProjectNotFound = errors.New("project not found")

	// ErrMilestoneNotFound indicates the requested milestone was not found.
	ErrMilestoneNotFound = errors.New("milestone not found")

	// ErrMilestoneProjectMismatch indicates a task and milestone belong to different projects.
	ErrMilestoneProjectMismatch = errors.New("task and milestone belong to different projects")
)
