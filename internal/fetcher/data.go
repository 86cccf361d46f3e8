package fetcher

import "time"

// Result is the outcome of a successful fetch: decoded body text and the
// URL it was ultimately served from (equal to the requested URL here, since
// the archive's replay endpoint does not redirect across hosts).
type Result struct {
	FinalURL  string
	Body      string
	FetchedAt time.Time
	FromCache bool
}
