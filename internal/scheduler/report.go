package scheduler

// logFinalSummary writes the crawl's closing statistics block, matching the
// original crawler's exact log text so existing log-scraping tooling keeps
// working against this implementation.
func (s *Scheduler) logFinalSummary() {
	s.log.Info().Msg("=== Final Statistics ===")
	s.log.Info().Msgf("Total snapshots found:     %d", s.stats.TotalSnapshots())
	s.log.Info().Msgf("New snapshots processed:   %d", s.stats.NewSnapshots())
	s.log.Info().Msgf("URLs crawled:              %d", s.stats.Get("processed_urls"))
	s.log.Info().Msgf("Keyword matches found:     %d", s.stats.Get("match_count"))

	failedDomains := s.stats.GetFailedDomains()
	if len(failedDomains) == 0 {
		return
	}

	s.log.Info().Msg("=== Problem Domains ===")
	for _, domain := range failedDomains {
		s.log.Info().Msgf(" - %s", domain)
	}
}
