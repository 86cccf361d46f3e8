package config

// validate enforces spec.md §7.1's configuration error taxonomy: non-positive
// numerics, an epsilon outside (0,1), and missing required file paths are all
// fatal before the crawl starts.
func validate(c *Config) error {
	positiveInts := map[string]int{
		"max_concurrent": c.maxConcurrent,
		"max_retries":    c.maxRetries,
		"max_depth":      c.maxDepth,
		"queue_size":     c.queueSize,
		"batch_size":     c.batchSize,
	}
	for name, v := range positiveInts {
		if v <= 0 {
			return newError(ErrCauseInvalidValue, "%s must be positive, got %d", name, v)
		}
	}

	if c.storage.bloomErrorRate <= 0 || c.storage.bloomErrorRate >= 1 {
		return newError(ErrCauseInvalidValue, "storage.bloom_error_rate must be in (0,1), got %v", c.storage.bloomErrorRate)
	}
	if c.storage.bloomCapacity == 0 {
		return newError(ErrCauseInvalidValue, "storage.bloom_capacity must be positive")
	}
	if c.storage.cacheTTLDays <= 0 {
		return newError(ErrCauseInvalidValue, "storage.cache_ttl_days must be positive, got %d", c.storage.cacheTTLDays)
	}

	if c.cdx.targetDomainsFile == "" {
		return newError(ErrCauseMissingPath, "cdx.target_domains_file is required")
	}
	if c.parser.patternsFile == "" {
		return newError(ErrCauseMissingPath, "parser.patterns_file is required")
	}

	if c.cdx.maxPages < 0 {
		return newError(ErrCauseInvalidValue, "cdx.max_pages must be >= 0 (0 means uncapped), got %d", c.cdx.maxPages)
	}
	if c.cdx.backoffFactor <= 1 {
		return newError(ErrCauseInvalidValue, "cdx.backoff_factor must be > 1, got %v", c.cdx.backoffFactor)
	}

	return nil
}
