package domain

import "errors"

var (
	ErrReportNotFound = errors.New("report not found")
	ErrReportNotReady = errors.New("report is not completed")
)
