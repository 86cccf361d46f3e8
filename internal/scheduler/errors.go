package scheduler

import "github.com/dariuskan/archivecrawler/pkg/failure"

type ErrorCause int

const (
	ErrCauseBootstrap ErrorCause = iota
	ErrCauseAdmission
)

// Error classifies a scheduler-level failure. Per-URL failures (fetch,
// parse) are logged and counted, never returned here — only failures that
// abort the crawl outright surface as an Error.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string              { return e.Message }
func (e *Error) Severity() failure.Severity { return failure.SeverityFatal }

func newError(cause ErrorCause, err error) *Error {
	return &Error{Message: err.Error(), Cause: cause}
}
