package stats

import (
	"fmt"

	"github.com/dariuskan/archivecrawler/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseMarshal ErrorCause = "marshal error"
)

// PersistError is the failure.ClassifiedError for the statistics file.
// Failure here is recoverable: a missed stats write does not invalidate
// anything already crawled, per spec.md §7.6.
type PersistError struct {
	Message string
	Cause   ErrorCause
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("stats: %s: %s", e.Cause, e.Message)
}

func (e *PersistError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
