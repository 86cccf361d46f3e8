package urlutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// snapshotPathPattern matches the archive's replay path: /web/<14-digit
// timestamp>[id_]/<original-url>. The id_ modifier pins the exact capture
// (no redirect to the closest snapshot) and is optional.
var snapshotPathPattern = regexp.MustCompile(`^/web/(\d{14})(id_)?/(.+)$`)

// BuildSnapshotURL constructs an absolute archive replay URL of the form
// http(s)://<archiveHost>/web/<timestamp>id_/<original> from a CDX row's
// timestamp and original URL. The original URL is carried verbatim (already
// percent-encoded by the archive), never re-encoded.
func BuildSnapshotURL(archiveHost, timestamp, original string) string {
	return fmt.Sprintf("https://%s/web/%sid_/%s", archiveHost, timestamp, original)
}

// ParseSnapshotURL splits an archive replay URL into its timestamp and
// original-URL components. ok is false if u is not on the archive host or
// doesn't match the replay path shape.
func ParseSnapshotURL(u *url.URL, archiveHost string) (timestamp, original string, ok bool) {
	if u == nil || !strings.EqualFold(u.Hostname(), archiveHost) {
		return "", "", false
	}

	matches := snapshotPathPattern.FindStringSubmatch(u.EscapedPath())
	if matches == nil {
		return "", "", false
	}

	return matches[1], matches[3], true
}

// IsArchiveHost reports whether host matches the configured archive host,
// case-insensitively.
func IsArchiveHost(host, archiveHost string) bool {
	return strings.EqualFold(host, archiveHost)
}

// HasTargetDomainPrefix reports whether the decoded original-URL segment of
// a snapshot path starts with one of the configured target-domain prefixes.
// Prefixes are matched against the original URL after stripping its scheme,
// so both "example.jp" and "http://example.jp" configured prefixes work.
func HasTargetDomainPrefix(original string, targetDomainPrefixes []string) bool {
	stripped := stripScheme(original)
	for _, prefix := range targetDomainPrefixes {
		if strings.HasPrefix(stripped, stripScheme(prefix)) {
			return true
		}
	}
	return false
}

func stripScheme(s string) string {
	if idx := strings.Index(s, "://"); idx != -1 {
		return s[idx+3:]
	}
	return s
}
