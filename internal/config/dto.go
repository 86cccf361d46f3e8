package config

import "time"

// configDTO mirrors the YAML document shape from the External Interfaces
// table: top-level scalars plus one nested block per component. Every field
// is optional; zero values mean "keep the default". Durations are expressed
// as plain seconds (spec.md §6 states each in "seconds"), not Go duration
// strings: yaml.v3 has no built-in time.Duration support the way
// caarlos0/env's env-var overlay does, so these are floats converted to
// time.Duration after decoding.
type configDTO struct {
	MaxConcurrent    int     `yaml:"max_concurrent"`
	MaxRetries       int     `yaml:"max_retries"`
	MaxDepth         int     `yaml:"max_depth"`
	QueueSize        int     `yaml:"queue_size"`
	AutoSaveInterval float64 `yaml:"auto_save_interval"`
	BatchSize        int     `yaml:"batch_size"`
	CacheDir         string  `yaml:"cache_dir"`

	Log struct {
		Path        string `yaml:"path"`
		MaxBytes    int64  `yaml:"max_bytes"`
		BackupCount int    `yaml:"backup_count"`
	} `yaml:"log"`

	Fetch struct {
		UserAgentsFile string  `yaml:"user_agents_file"`
		RateLimit      float64 `yaml:"rate_limit"`
	} `yaml:"fetch"`

	Storage struct {
		BloomCapacity     uint    `yaml:"bloom_capacity"`
		BloomErrorRate    float64 `yaml:"bloom_error_rate"`
		CacheTTLDays      int     `yaml:"cache_ttl_days"`
		CacheDir          string  `yaml:"cache_dir"`
		BloomPersistEvery int     `yaml:"bloom_persist_every"`
	} `yaml:"storage"`

	Parser struct {
		PatternsFile  string   `yaml:"patterns_file"`
		URLFilters    []string `yaml:"url_filters"`
		CaseSensitive bool     `yaml:"case_sensitive"`
	} `yaml:"parser"`

	Scheduler struct {
		Seeds         []string `yaml:"seeds"`
		PoisonPill    string   `yaml:"poison_pill"`
		MaxConcurrent int      `yaml:"max_concurrent"`
		MaxDepth      int      `yaml:"max_depth"`
		QueueSize     int      `yaml:"queue_size"`
		Debug         bool     `yaml:"debug"`
	} `yaml:"scheduler"`

	CDX struct {
		RequestTimeout    float64 `yaml:"request_timeout"`
		MaxPages          int     `yaml:"max_pages"`
		BackoffFactor     float64 `yaml:"backoff_factor"`
		TargetDomainsFile string  `yaml:"target_domains_file"`
		PageSize          int     `yaml:"page_size"`
		ArchiveHost       string  `yaml:"archive_host"`
		MaxRetries        int     `yaml:"max_retries"`
	} `yaml:"cdx"`
}

// newConfigFromDTO starts from WithDefault and overrides every field the DTO
// set to a non-zero value, the same selective-override shape the rest of the
// builder chain uses.
func newConfigFromDTO(dto configDTO) *Config {
	cfg := WithDefault()

	if dto.MaxConcurrent != 0 {
		cfg.maxConcurrent = dto.MaxConcurrent
	}
	if dto.MaxRetries != 0 {
		cfg.maxRetries = dto.MaxRetries
	}
	if dto.MaxDepth != 0 {
		cfg.maxDepth = dto.MaxDepth
	}
	if dto.QueueSize != 0 {
		cfg.queueSize = dto.QueueSize
	}
	if dto.AutoSaveInterval != 0 {
		cfg.autoSaveInterval = secondsToDuration(dto.AutoSaveInterval)
	}
	if dto.BatchSize != 0 {
		cfg.batchSize = dto.BatchSize
	}
	if dto.CacheDir != "" {
		cfg.cacheDir = dto.CacheDir
	}

	if dto.Log.Path != "" {
		cfg.log.path = dto.Log.Path
	}
	if dto.Log.MaxBytes != 0 {
		cfg.log.maxBytes = dto.Log.MaxBytes
	}
	if dto.Log.BackupCount != 0 {
		cfg.log.backupCount = dto.Log.BackupCount
	}

	if dto.Fetch.UserAgentsFile != "" {
		cfg.fetch.userAgentsFile = dto.Fetch.UserAgentsFile
	}
	if dto.Fetch.RateLimit != 0 {
		cfg.fetch.rateLimit = secondsToDuration(dto.Fetch.RateLimit)
	}

	if dto.Storage.BloomCapacity != 0 {
		cfg.storage.bloomCapacity = dto.Storage.BloomCapacity
	}
	if dto.Storage.BloomErrorRate != 0 {
		cfg.storage.bloomErrorRate = dto.Storage.BloomErrorRate
	}
	if dto.Storage.CacheTTLDays != 0 {
		cfg.storage.cacheTTLDays = dto.Storage.CacheTTLDays
	}
	if dto.Storage.CacheDir != "" {
		cfg.storage.cacheDir = dto.Storage.CacheDir
	}
	if dto.Storage.BloomPersistEvery != 0 {
		cfg.storage.bloomPersistEvery = dto.Storage.BloomPersistEvery
	}

	if dto.Parser.PatternsFile != "" {
		cfg.parser.patternsFile = dto.Parser.PatternsFile
	}
	if len(dto.Parser.URLFilters) > 0 {
		cfg.parser.urlFilters = dto.Parser.URLFilters
	}
	// CaseSensitive is a bool: always take the DTO value, default is false anyway.
	cfg.parser.caseSensitive = dto.Parser.CaseSensitive

	if len(dto.Scheduler.Seeds) > 0 {
		cfg.scheduler.seeds = dto.Scheduler.Seeds
	}
	if dto.Scheduler.PoisonPill != "" {
		cfg.scheduler.poisonPill = dto.Scheduler.PoisonPill
	}
	if dto.Scheduler.MaxConcurrent != 0 {
		cfg.scheduler.maxConcurrent = dto.Scheduler.MaxConcurrent
	}
	if dto.Scheduler.MaxDepth != 0 {
		cfg.scheduler.maxDepth = dto.Scheduler.MaxDepth
	}
	if dto.Scheduler.QueueSize != 0 {
		cfg.scheduler.queueSize = dto.Scheduler.QueueSize
	}
	cfg.scheduler.debugEcho = dto.Scheduler.Debug

	if dto.CDX.RequestTimeout != 0 {
		cfg.cdx.requestTimeout = secondsToDuration(dto.CDX.RequestTimeout)
	}
	// max_pages=0 is a legitimate "uncapped" value (Open Question decision #2),
	// so only apply it when the key was present at all is indistinguishable
	// from "unset" in YAML; 0 is accepted as the (default) uncapped value.
	cfg.cdx.maxPages = dto.CDX.MaxPages
	if dto.CDX.BackoffFactor != 0 {
		cfg.cdx.backoffFactor = dto.CDX.BackoffFactor
	}
	if dto.CDX.TargetDomainsFile != "" {
		cfg.cdx.targetDomainsFile = dto.CDX.TargetDomainsFile
	}
	if dto.CDX.PageSize != 0 {
		cfg.cdx.pageSize = dto.CDX.PageSize
	}
	if dto.CDX.ArchiveHost != "" {
		cfg.cdx.archiveHost = dto.CDX.ArchiveHost
	}
	if dto.CDX.MaxRetries != 0 {
		cfg.cdx.maxRetries = dto.CDX.MaxRetries
	}

	return cfg
}

// secondsToDuration converts a YAML-supplied seconds value (yaml.v3 has no
// native time.Duration decoding, unlike caarlos0/env's env-var overlay) into
// a time.Duration.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
