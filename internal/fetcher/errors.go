package fetcher

import (
	"fmt"

	"github.com/dariuskan/archivecrawler/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseNetworkFailure     ErrorCause = "network failure"
	ErrCauseRequest5xx         ErrorCause = "server error"
	ErrCauseRequestTooMany     ErrorCause = "rate limited"
	ErrCauseRequestForbidden   ErrorCause = "forbidden"
	ErrCauseRequestClientError ErrorCause = "client error"
	ErrCauseContentTypeInvalid ErrorCause = "non-html content type"
	ErrCauseReadBodyFailed     ErrorCause = "read response body failed"
	ErrCauseUserAgentsFile     ErrorCause = "user agents file error"
)

// Error is the failure.ClassifiedError for fetch failures. Transport errors
// and 5xx/429 are retryable; everything else is treated as permanent for
// this run, matching spec.md §4.3's "non-200 = no retry" rule (the CDX
// already filtered by status, so failure on replay is not transient).
type Error struct {
	Message   string
	Retryable bool
	Cause     ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetcher: %s: %s", e.Cause, e.Message)
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
