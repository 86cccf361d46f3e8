package config

import (
	"fmt"

	"github.com/dariuskan/archivecrawler/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseFileMissing   ErrorCause = "config file missing"
	ErrCauseReadFailed    ErrorCause = "config file unreadable"
	ErrCauseParseFailed   ErrorCause = "config file malformed"
	ErrCauseInvalidValue  ErrorCause = "invalid config value"
	ErrCauseMissingPath   ErrorCause = "required path not set"
	ErrCauseEnvOverlayBad ErrorCause = "environment overlay malformed"
)

// Error reports a fatal configuration problem. Configuration errors are
// always fatal: the crawl never starts on an invalid config.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Cause, e.Message)
}

func (e *Error) Severity() failure.Severity {
	return failure.SeverityFatal
}

func newError(cause ErrorCause, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Cause: cause}
}
