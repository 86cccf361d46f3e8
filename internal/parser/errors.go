package parser

import "github.com/dariuskan/archivecrawler/pkg/failure"

// ErrorCause names why pattern compilation or link filtering failed.
type ErrorCause int

const (
	ErrCausePatternsFile ErrorCause = iota
	ErrCauseDomainsFile
	ErrCauseBadPattern
	ErrCauseMalformedInput
)

// Error is the parser package's failure.ClassifiedError. A parser failure
// never halts the crawl by itself; callers log and drop the URL.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Severity() failure.Severity { return failure.SeverityRecoverable }

func newError(cause ErrorCause, err error) *Error {
	return &Error{Message: err.Error(), Cause: cause}
}
