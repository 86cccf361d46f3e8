package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/dariuskan/archivecrawler/internal/cdxseed"
	"github.com/dariuskan/archivecrawler/internal/config"
	"github.com/dariuskan/archivecrawler/internal/fetcher"
	"github.com/dariuskan/archivecrawler/internal/frontier"
	"github.com/dariuskan/archivecrawler/internal/logging"
	"github.com/dariuskan/archivecrawler/internal/parser"
	"github.com/dariuskan/archivecrawler/internal/stats"
	"github.com/dariuskan/archivecrawler/internal/storage"
	"github.com/rs/zerolog"
)

// defaultFromDate and defaultToDate bound the CDX snapshot query when no
// narrower window is configured. They mirror the original crawler's
// hardcoded default range.
const (
	defaultFromDate = "20040101000000"
	defaultToDate   = "20041231235959"
)

/*
Scheduler is the sole control-plane authority of the crawl:

  - enqueue is the only path a URL can reach the frontier through, and it
    enforces max_depth and visited-set admission as one atomic check.
  - run bootstraps seed URLs, then starts max_concurrent workers that pull
    from the frontier until shutdown.
  - shutdown is idempotent: it stops workers with a poison pill, persists
    storage and statistics, and logs the final crawl summary.

Fetching, parsing, and storage are all delegated; the scheduler decides
only whether and when a URL is processed.
*/
type Scheduler struct {
	cfg      config.SchedulerConfig
	frontier *frontier.Frontier
	storage  *storage.Storage
	fetcher  *fetcher.Fetcher
	parser   *parser.Parser
	seeder   *cdxseed.Seeder
	stats    *stats.Stats
	log      zerolog.Logger

	maxDepth int

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	doneCh       chan struct{}
	workers      sync.WaitGroup

	autoSaveInterval time.Duration
	statsPath        string
}

// New wires a Scheduler from already-constructed dependencies. cfg is the
// full resolved Config, not just its SchedulerConfig slice, because the
// scheduler also needs max_depth and auto_save_interval.
func New(
	cfg config.Config,
	fr *frontier.Frontier,
	st *storage.Storage,
	ft *fetcher.Fetcher,
	ps *parser.Parser,
	sd *cdxseed.Seeder,
	stt *stats.Stats,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:              cfg.Scheduler(),
		frontier:         fr,
		storage:          st,
		fetcher:          ft,
		parser:           ps,
		seeder:           sd,
		stats:            stt,
		log:              log,
		maxDepth:         cfg.MaxDepth(),
		shutdownCh:       make(chan struct{}),
		doneCh:           make(chan struct{}),
		autoSaveInterval: cfg.AutoSaveInterval(),
		statsPath:        cfg.Storage().CacheDir() + "/stats.json",
	}
}

// enqueue is the single admission chokepoint: a URL reaches the frontier
// only if it is within max_depth and wins the atomic visited-set
// test-and-add. Losing either check is not an error; the URL is simply
// dropped.
func (s *Scheduler) enqueue(ctx context.Context, rawURL string, priority, depth int) error {
	if frontier.ExceedsMaxDepth(depth, s.maxDepth) {
		return nil
	}

	added, err := s.storage.TestAndAdd(rawURL)
	if err != nil {
		s.log.Error().Err(err).Str(string(logging.AttrURL), rawURL).Msg("visited-set admission failed")
		return nil
	}
	if !added {
		return nil
	}

	item := frontier.NewQueueItem(priority, depth, rawURL)
	if err := s.frontier.Put(ctx, item); err != nil {
		return err
	}
	return nil
}

// Run bootstraps seed URLs, starts the worker pool and a periodic
// progress/auto-save ticker, then blocks until every worker has exited AND
// Shutdown's post-shutdown persistence has completed. Workers only exit
// once Shutdown has been called (it owns the poison pills), so by the time
// workers.Wait unblocks here, Shutdown is already in flight; waiting on
// doneCh on top of that guarantees Run never returns, and a caller never
// tears the process down, before matches/visited-set/stats are on disk.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.bootstrapSeeds(ctx); err != nil {
		return newError(ErrCauseBootstrap, err)
	}

	for i := 0; i < s.cfg.MaxConcurrent(); i++ {
		s.workers.Add(1)
		go s.workerLoop(ctx, i)
	}

	go s.autoSaveLoop(ctx)

	s.workers.Wait()
	<-s.doneCh
	return nil
}

// Shutdown stops the crawl: it is safe to call more than once or
// concurrently with Run, and only the first call has any effect. It sends
// one poison pill per worker, waits for every worker to exit, persists
// storage and statistics, logs the final summary, then signals doneCh so
// Run can return.
func (s *Scheduler) Shutdown(ctx context.Context) {
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)

		for i := 0; i < s.cfg.MaxConcurrent(); i++ {
			pill := frontier.NewQueueItem(poisonPillPriority, 0, s.cfg.PoisonPill())
			if err := s.frontier.Put(ctx, pill); err != nil {
				s.log.Warn().Err(err).Msg("failed to deliver poison pill, worker may hang")
			}
		}

		s.workers.Wait()
		s.frontier.Close()

		if err := s.storage.PersistMatches(); err != nil {
			s.log.Error().Err(err).Msg("failed to persist matches")
		}
		if err := s.storage.Flush(); err != nil {
			s.log.Error().Err(err).Msg("failed to flush visited set")
		}
		if err := s.stats.Persist(s.statsPath); err != nil {
			s.log.Error().Err(err).Msg("failed to persist stats")
		}

		s.logFinalSummary()
		s.fetcher.Close()

		close(s.doneCh)
	})
}

// poisonPillPriority is deliberately higher than any real depth-based
// priority, so a poison pill is served only after the backlog queued ahead
// of it has drained, the same ordering the original crawler relied on.
const poisonPillPriority = 1 << 30

// isPoisonPill reports whether url is the configured sentinel.
func (s *Scheduler) isPoisonPill(url string) bool {
	return url == s.cfg.PoisonPill()
}

// autoSaveLoop persists match and visited state on auto_save_interval and
// logs crawl progress at Info level, so a long crawl's health is visible
// without waiting for shutdown.
func (s *Scheduler) autoSaveLoop(ctx context.Context) {
	if s.autoSaveInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.autoSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdownCh:
			return
		case <-ticker.C:
			if err := s.storage.PersistMatches(); err != nil {
				s.log.Error().Err(err).Msg("auto-save: failed to persist matches")
			}
			if err := s.storage.Flush(); err != nil {
				s.log.Error().Err(err).Msg("auto-save: failed to flush visited set")
			}
			if err := s.stats.Persist(s.statsPath); err != nil {
				s.log.Error().Err(err).Msg("auto-save: failed to persist stats")
			}
			s.log.Info().
				Float64("progress_pct", s.stats.GetProgress()).
				Int("processed", s.stats.Get("processed_urls")).
				Int("total", s.stats.GetTotalURLs()).
				Int("matches", s.stats.Get("match_count")).
				Msg("crawl progress")
		}
	}
}
