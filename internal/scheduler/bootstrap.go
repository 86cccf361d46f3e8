package scheduler

import "context"

// bootstrapSeeds enqueues the crawl's two seed waves: CDX-sourced snapshot
// URLs for every configured target domain, then any static seeds named
// directly in configuration. total_urls reflects the CDX wave's count only;
// URLs discovered during the crawl never change the denominator (spec.md
// §4.2), which is why static seeds are added after SetTotalURLs.
func (s *Scheduler) bootstrapSeeds(ctx context.Context) error {
	seedURLs, err := s.seeder.SeedURLs(ctx, defaultFromDate, defaultToDate)
	if err != nil {
		s.log.Error().Err(err).Msg("cdx seeding failed, continuing with static seeds only")
		seedURLs = nil
	}

	s.stats.SetTotalURLs(len(seedURLs))

	for _, u := range seedURLs {
		if err := s.enqueue(ctx, u, 0, 0); err != nil {
			return err
		}
	}

	for _, u := range s.cfg.Seeds() {
		if err := s.enqueue(ctx, u, 0, 0); err != nil {
			return err
		}
	}

	return nil
}
