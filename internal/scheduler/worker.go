package scheduler

import (
	"context"
	"time"

	"github.com/dariuskan/archivecrawler/internal/frontier"
	"github.com/dariuskan/archivecrawler/internal/logging"
)

// pollTimeout bounds how long a worker waits on an empty frontier before
// re-checking shutdownCh. Keeping it short means Shutdown is never blocked
// behind a long poll on a queue nobody is feeding.
const pollTimeout = 5 * time.Second

// debugEchoBytes is how many characters (runes) of a fetched body are logged
// at Debug level when scheduler.debug is enabled and parsing that body fails.
const debugEchoBytes = 200

func (s *Scheduler) workerLoop(ctx context.Context, id int) {
	defer s.workers.Done()

	for {
		select {
		case <-s.shutdownCh:
			return
		default:
		}

		item, ok := s.frontier.Get(pollTimeout)
		if !ok {
			continue
		}

		if s.isPoisonPill(item.URL()) {
			s.log.Debug().Int("worker", id).Msg("worker received poison pill")
			return
		}

		s.processURL(ctx, item)
	}
}

// processURL runs the fetch -> parse -> store -> re-enqueue pipeline for one
// frontier item. Panics are recovered, logged, and counted rather than
// killing the worker, since one malformed page must never take down the
// crawl.
func (s *Scheduler) processURL(ctx context.Context, item frontier.QueueItem) {
	defer func() {
		if r := recover(); r != nil {
			s.stats.Increment("error_count", 1)
			s.log.Error().
				Interface("panic", r).
				Str(string(logging.AttrURL), item.URL()).
				Int(string(logging.AttrDepth), item.Depth()).
				Msg("worker panic recovered")
		}
	}()

	fetchResult, cerr := s.fetcher.Fetch(ctx, item.URL())
	if cerr != nil {
		s.stats.Increment("error_count", 1)
		s.log.Error().
			Err(cerr).
			Str(string(logging.AttrURL), item.URL()).
			Msg("fetch failed")
		if s.cfg.DebugEcho() {
			s.log.Debug().Str(string(logging.AttrURL), item.URL()).Msg("fetch failed, no content to echo")
		}
		return
	}
	if fetchResult.Body == "" {
		return
	}

	result, perr := s.parser.Parse(fetchResult.Body, fetchResult.FinalURL)
	if perr != nil {
		s.stats.Increment("error_count", 1)
		s.log.Error().
			Err(perr).
			Str(string(logging.AttrURL), fetchResult.FinalURL).
			Msg("parse failed")
		if s.cfg.DebugEcho() {
			s.log.Debug().
				Str(string(logging.AttrURL), fetchResult.FinalURL).
				Str("content_sample", truncateBody(fetchResult.Body, debugEchoBytes)).
				Msg("parse failure content echo")
		}
		return
	}

	matched := len(result.Matches) > 0
	if matched {
		saved := s.storage.SaveMatches(fetchResult.FinalURL, result.Matches)
		s.stats.Increment("match_count", saved)
	}

	s.stats.Increment("processed_urls", 1)
	s.log.Debug().
		Str(string(logging.AttrURL), fetchResult.FinalURL).
		Int(string(logging.AttrDepth), item.Depth()).
		Float64("progress_pct", s.stats.GetProgress()).
		Msg("url processed")

	childDepth := frontier.ChildDepth(item.Depth())
	if frontier.ExceedsMaxDepth(childDepth, s.maxDepth) {
		return
	}
	childPriority := frontier.ChildPriority(childDepth, matched)

	for _, discovered := range result.DiscoveredURLs {
		if err := s.enqueue(ctx, discovered, childPriority, childDepth); err != nil {
			s.log.Warn().
				Err(err).
				Str(string(logging.AttrURL), discovered).
				Msg("failed to enqueue discovered url")
			return
		}
	}
}

func truncateBody(body string, n int) string {
	r := []rune(body)
	if len(r) <= n {
		return body
	}
	return string(r[:n])
}
