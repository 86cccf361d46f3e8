package logging

/*
Metadata collected:
- Fetch timestamps
- HTTP status codes
- Content hashes
- Crawl depth

Logging goals:
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is used throughout: fields carry primitive values,
timestamps, URLs (as string values, not objects with behavior), hashes,
status codes, durations, and identifiers (crawl ID, depth).
*/

import (
	"io"
	"os"

	"github.com/dariuskan/archivecrawler/internal/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AttributeKey names a structured logging field, kept to a closed vocabulary
// so crawl logs stay machine-parseable across components.
type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrDepth      AttributeKey = "depth"
	AttrPriority   AttributeKey = "priority"
	AttrField      AttributeKey = "field"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrDomain     AttributeKey = "domain"
	AttrCrawlID    AttributeKey = "crawl_id"
	AttrDuration   AttributeKey = "duration_ms"
	AttrHash       AttributeKey = "hash"
	AttrAttempt    AttributeKey = "attempt"
)

// New builds a zerolog.Logger writing structured lines to a rotating log
// file, tagged with a freshly minted crawl_id that threads through every log
// line emitted by this run.
func New(cfg config.LogConfig) (zerolog.Logger, func() error, error) {
	writer, err := newRotatingWriter(cfg.Path(), cfg.MaxBytes(), cfg.BackupCount())
	if err != nil {
		return zerolog.Logger{}, nil, err
	}

	multi := zerolog.MultiLevelWriter(writer, os.Stdout)
	logger := zerolog.New(multi).
		With().
		Timestamp().
		Str(string(AttrCrawlID), uuid.NewString()).
		Logger()

	return logger, writer.Close, nil
}

// NewForTest builds a logger that writes only to the given writer, with no
// file rotation, for use in package tests that want to assert on log output.
func NewForTest(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str(string(AttrCrawlID), "test").Logger()
}
