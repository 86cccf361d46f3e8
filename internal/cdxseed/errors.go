package cdxseed

import (
	"fmt"

	"github.com/dariuskan/archivecrawler/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseNetworkFailure   ErrorCause = "network failure"
	ErrCauseRateLimited      ErrorCause = "rate limited"
	ErrCauseHTTPStatus       ErrorCause = "unexpected http status"
	ErrCauseMalformedPayload ErrorCause = "malformed cdx payload"
	ErrCauseDomainsFile      ErrorCause = "domains file error"
)

// Error is the failure.ClassifiedError for the CDX client. Retryable errors
// are transport failures, rate limiting, and 5xx. A malformed first page is
// a non-retryable error that fails the domain; a malformed later page is not
// an error at all, it only ends pagination and keeps the rows already read.
type Error struct {
	Message   string
	Retryable bool
	Cause     ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("cdxseed: %s: %s", e.Cause, e.Message)
}

func (e *Error) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *Error) IsRetryable() bool {
	return e.Retryable
}
