package config

import "time"

// Config is the fully-resolved crawl configuration: YAML file values
// overlaid with environment overrides, already validated.
//
//   cdx.target_domains_file | parser.patterns_file
//
// are the two paths validate refuses to let through empty.
type Config struct {
	maxConcurrent      int
	maxRetries         int
	maxDepth           int
	queueSize          int
	autoSaveInterval   time.Duration
	batchSize          int
	cacheDir           string
	log                LogConfig
	fetch              FetchConfig
	storage            StorageConfig
	parser             ParserConfig
	scheduler          SchedulerConfig
	cdx                CDXConfig
}

// LogConfig controls the rotating log file (spec key log.*).
type LogConfig struct {
	path         string
	maxBytes     int64
	backupCount  int
}

// FetchConfig controls fetcher.* knobs (spec key fetch.*).
type FetchConfig struct {
	userAgentsFile string
	rateLimit      time.Duration
}

// StorageConfig controls the dedup/cache policy (spec key storage.*).
type StorageConfig struct {
	bloomCapacity     uint
	bloomErrorRate    float64
	cacheTTLDays      int
	cacheDir          string
	bloomPersistEvery int
}

// ParserConfig controls keyword matching (spec key parser.*).
type ParserConfig struct {
	patternsFile  string
	urlFilters    []string
	caseSensitive bool
}

// SchedulerConfig controls bootstrap and shutdown behavior (spec key scheduler.*).
type SchedulerConfig struct {
	seeds         []string
	poisonPill    string
	maxConcurrent int
	maxDepth      int
	queueSize     int
	debugEcho     bool
}

// CDXConfig controls the archive index client (spec key cdx.*).
type CDXConfig struct {
	requestTimeout    time.Duration
	maxPages          int
	backoffFactor     float64
	targetDomainsFile string
	pageSize          int
	archiveHost       string
	maxRetries        int
}

// WithDefault returns a Config populated with the defaults this repository
// ships with. Callers override via With* builders or by overlaying a
// configDTO loaded from YAML/env.
func WithDefault() *Config {
	return &Config{
		maxConcurrent:    10,
		maxRetries:       3,
		maxDepth:         3,
		queueSize:        10_000,
		autoSaveInterval: 30 * time.Second,
		batchSize:        100,
		cacheDir:         "cache",
		log: LogConfig{
			path:        "archivecrawler.log",
			maxBytes:    10 * 1024 * 1024,
			backupCount: 5,
		},
		fetch: FetchConfig{
			userAgentsFile: "user_agents.txt",
			rateLimit:      time.Second,
		},
		storage: StorageConfig{
			bloomCapacity:     1_000_000,
			bloomErrorRate:    0.001,
			cacheTTLDays:      30,
			cacheDir:          "cache",
			bloomPersistEvery: 50,
		},
		parser: ParserConfig{
			patternsFile:  "patterns.txt",
			caseSensitive: false,
		},
		scheduler: SchedulerConfig{
			poisonPill:    "\x00poison-pill",
			maxConcurrent: 10,
			maxDepth:      3,
			queueSize:     10_000,
		},
		cdx: CDXConfig{
			requestTimeout:    30 * time.Second,
			maxPages:          0,
			backoffFactor:     2.0,
			targetDomainsFile: "",
			pageSize:          1000,
			archiveHost:       "web.archive.org",
			maxRetries:        3,
		},
	}
}

func (c *Config) WithMaxConcurrent(n int) *Config {
	c.maxConcurrent = n
	return c
}

func (c *Config) WithMaxRetries(n int) *Config {
	c.maxRetries = n
	return c
}

func (c *Config) WithMaxDepth(n int) *Config {
	c.maxDepth = n
	return c
}

func (c *Config) WithQueueSize(n int) *Config {
	c.queueSize = n
	return c
}

func (c *Config) WithAutoSaveInterval(d time.Duration) *Config {
	c.autoSaveInterval = d
	return c
}

func (c *Config) WithBatchSize(n int) *Config {
	c.batchSize = n
	return c
}

func (c *Config) WithCacheDir(dir string) *Config {
	c.cacheDir = dir
	return c
}

func (c *Config) WithLog(l LogConfig) *Config {
	c.log = l
	return c
}

func (c *Config) WithFetch(f FetchConfig) *Config {
	c.fetch = f
	return c
}

func (c *Config) WithStorage(s StorageConfig) *Config {
	c.storage = s
	return c
}

func (c *Config) WithParser(p ParserConfig) *Config {
	c.parser = p
	return c
}

func (c *Config) WithScheduler(s SchedulerConfig) *Config {
	c.scheduler = s
	return c
}

func (c *Config) WithCDX(cdx CDXConfig) *Config {
	c.cdx = cdx
	return c
}

// Build validates the accumulated Config and returns it by value.
func (c *Config) Build() (Config, error) {
	if err := validate(c); err != nil {
		return Config{}, err
	}
	return *c, nil
}

func (c Config) MaxConcurrent() int            { return c.maxConcurrent }
func (c Config) MaxRetries() int               { return c.maxRetries }
func (c Config) MaxDepth() int                 { return c.maxDepth }
func (c Config) QueueSize() int                { return c.queueSize }
func (c Config) AutoSaveInterval() time.Duration { return c.autoSaveInterval }
func (c Config) BatchSize() int                { return c.batchSize }
func (c Config) CacheDir() string              { return c.cacheDir }
func (c Config) Log() LogConfig                { return c.log }
func (c Config) Fetch() FetchConfig            { return c.fetch }
func (c Config) Storage() StorageConfig        { return c.storage }
func (c Config) Parser() ParserConfig          { return c.parser }
func (c Config) Scheduler() SchedulerConfig    { return c.scheduler }
func (c Config) CDX() CDXConfig                { return c.cdx }

func (l LogConfig) Path() string        { return l.path }
func (l LogConfig) MaxBytes() int64     { return l.maxBytes }
func (l LogConfig) BackupCount() int    { return l.backupCount }

func (f FetchConfig) UserAgentsFile() string   { return f.userAgentsFile }
func (f FetchConfig) RateLimit() time.Duration { return f.rateLimit }

func (s StorageConfig) BloomCapacity() uint      { return s.bloomCapacity }
func (s StorageConfig) BloomErrorRate() float64  { return s.bloomErrorRate }
func (s StorageConfig) CacheTTLDays() int        { return s.cacheTTLDays }
func (s StorageConfig) CacheDir() string         { return s.cacheDir }
func (s StorageConfig) BloomPersistEvery() int   { return s.bloomPersistEvery }

func (p ParserConfig) PatternsFile() string { return p.patternsFile }
func (p ParserConfig) URLFilters() []string {
	filters := make([]string, len(p.urlFilters))
	copy(filters, p.urlFilters)
	return filters
}
func (p ParserConfig) CaseSensitive() bool { return p.caseSensitive }

func (s SchedulerConfig) Seeds() []string {
	seeds := make([]string, len(s.seeds))
	copy(seeds, s.seeds)
	return seeds
}
func (s SchedulerConfig) PoisonPill() string    { return s.poisonPill }
func (s SchedulerConfig) MaxConcurrent() int    { return s.maxConcurrent }
func (s SchedulerConfig) MaxDepth() int         { return s.maxDepth }
func (s SchedulerConfig) QueueSize() int        { return s.queueSize }
func (s SchedulerConfig) DebugEcho() bool       { return s.debugEcho }

func (c CDXConfig) RequestTimeout() time.Duration { return c.requestTimeout }
func (c CDXConfig) MaxPages() int                 { return c.maxPages }
func (c CDXConfig) BackoffFactor() float64        { return c.backoffFactor }
func (c CDXConfig) TargetDomainsFile() string     { return c.targetDomainsFile }
func (c CDXConfig) PageSize() int                 { return c.pageSize }
func (c CDXConfig) ArchiveHost() string           { return c.archiveHost }
func (c CDXConfig) MaxRetries() int               { return c.maxRetries }
