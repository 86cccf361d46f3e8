package cdxseed

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/dariuskan/archivecrawler/internal/config"
	"github.com/dariuskan/archivecrawler/internal/stats"
	"github.com/dariuskan/archivecrawler/pkg/urlutil"
	"github.com/rs/zerolog"
)

// visitedChecker is the slice of Storage a Seeder needs: a read-only
// membership test against the visited set, so new-snapshot counts reflect
// what Scheduler will actually enqueue.
type visitedChecker interface {
	IsVisited(url string) bool
}

// Seeder bootstraps CDX-sourced seed URLs for every configured target
// domain, one domain at a time, tolerating per-domain failure.
type Seeder struct {
	client  *Client
	cfg     config.CDXConfig
	storage visitedChecker
	stats   *stats.Stats
	log     zerolog.Logger
}

func NewSeeder(client *Client, cfg config.CDXConfig, storage visitedChecker, st *stats.Stats, log zerolog.Logger) *Seeder {
	return &Seeder{client: client, cfg: cfg, storage: storage, stats: st, log: log}
}

// SeedURLs fetches and filters snapshot URLs for every domain named in
// cfg.TargetDomainsFile(), continuing past any domain whose CDX fetch fails.
func (s *Seeder) SeedURLs(ctx context.Context, fromDate, toDate string) ([]string, error) {
	domains, err := loadDomains(s.cfg.TargetDomainsFile())
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("domains", len(domains)).Msg("bootstrapping seeds")

	var all []string
	for _, domain := range domains {
		s.log.Info().Str("domain", domain).Msg("fetching cdx snapshots")

		rows, cerr := s.client.FetchSnapshots(ctx, domain, fromDate, toDate)
		if cerr != nil {
			s.log.Error().Err(cerr).Str("domain", domain).Msg("cdx fetch failed")
			s.stats.AddFailedDomain(domain)
			continue
		}

		snapshotURLs := dedupPreserveOrder(rowsToSnapshotURLs(rows, s.cfg.ArchiveHost()))
		newURLs := s.filterUnvisited(snapshotURLs)

		s.stats.AddSnapshots(len(snapshotURLs), len(newURLs))
		s.log.Info().Str("domain", domain).Int("total", len(snapshotURLs)).Int("new", len(newURLs)).Msg("cdx snapshots processed")

		all = append(all, newURLs...)
	}

	return all, nil
}

func (s *Seeder) filterUnvisited(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !s.storage.IsVisited(u) {
			out = append(out, u)
		}
	}
	return out
}

func rowsToSnapshotURLs(rows []Row, archiveHost string) []string {
	urls := make([]string, 0, len(rows))
	for _, row := range rows {
		urls = append(urls, urlutil.BuildSnapshotURL(archiveHost, row.Timestamp, row.Original))
	}
	return urls
}

func loadDomains(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Message: err.Error(), Retryable: false, Cause: ErrCauseDomainsFile}
	}
	defer f.Close()

	var domains []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &Error{Message: err.Error(), Retryable: false, Cause: ErrCauseDomainsFile}
	}
	return domains, nil
}
