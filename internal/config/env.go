package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverlay is parsed with caarlos0/env after the YAML file is loaded, so
// operators can tune a single knob (e.g. concurrency in a container) without
// editing the YAML file. Every field is optional; zero values are left
// untouched.
type envOverlay struct {
	MaxConcurrent     int           `env:"MAX_CONCURRENT"`
	MaxRetries        int           `env:"MAX_RETRIES"`
	MaxDepth          int           `env:"MAX_DEPTH"`
	QueueSize         int           `env:"QUEUE_SIZE"`
	AutoSaveInterval  time.Duration `env:"AUTO_SAVE_INTERVAL"`
	CacheDir          string        `env:"CACHE_DIR"`
	LogPath           string        `env:"LOG_PATH"`
	FetchRateLimit    time.Duration `env:"FETCH_RATE_LIMIT"`
	TargetDomainsFile string        `env:"CDX_TARGET_DOMAINS_FILE"`
	PatternsFile      string        `env:"PARSER_PATTERNS_FILE"`
	ArchiveHost       string        `env:"CDX_ARCHIVE_HOST"`
}

// applyEnvOverlay reads ARCHIVECRAWLER_-prefixed environment variables and
// overrides the matching Config fields when set.
func applyEnvOverlay(cfg *Config) error {
	overlay := envOverlay{}
	if err := env.ParseWithOptions(&overlay, env.Options{Prefix: "ARCHIVECRAWLER_"}); err != nil {
		return newError(ErrCauseEnvOverlayBad, "%v", err)
	}

	if overlay.MaxConcurrent != 0 {
		cfg.maxConcurrent = overlay.MaxConcurrent
	}
	if overlay.MaxRetries != 0 {
		cfg.maxRetries = overlay.MaxRetries
	}
	if overlay.MaxDepth != 0 {
		cfg.maxDepth = overlay.MaxDepth
	}
	if overlay.QueueSize != 0 {
		cfg.queueSize = overlay.QueueSize
	}
	if overlay.AutoSaveInterval != 0 {
		cfg.autoSaveInterval = overlay.AutoSaveInterval
	}
	if overlay.CacheDir != "" {
		cfg.cacheDir = overlay.CacheDir
	}
	if overlay.LogPath != "" {
		cfg.log.path = overlay.LogPath
	}
	if overlay.FetchRateLimit != 0 {
		cfg.fetch.rateLimit = overlay.FetchRateLimit
	}
	if overlay.TargetDomainsFile != "" {
		cfg.cdx.targetDomainsFile = overlay.TargetDomainsFile
	}
	if overlay.PatternsFile != "" {
		cfg.parser.patternsFile = overlay.PatternsFile
	}
	if overlay.ArchiveHost != "" {
		cfg.cdx.archiveHost = overlay.ArchiveHost
	}

	return nil
}
