package storage

import (
	"fmt"

	"github.com/dariuskan/archivecrawler/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseBloomInit   ErrorCause = "bloom init error"
	ErrCauseMarshal     ErrorCause = "marshal error"
	ErrCauseUnmarshal   ErrorCause = "unmarshal error"
	ErrCausePersist     ErrorCause = "persist error"
	ErrCauseRead        ErrorCause = "read error"
)

// Error is the cross-cutting failure.ClassifiedError for this package. All
// storage failures are fatal: a crawl cannot safely proceed with a visited
// set, cache, or matches store it cannot trust.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s: %s", e.Cause, e.Message)
}

func (e *Error) Severity() failure.Severity {
	return failure.SeverityFatal
}

func newError(cause ErrorCause, err error) *Error {
	return &Error{Message: err.Error(), Cause: cause}
}
