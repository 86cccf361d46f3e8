package storage

import (
	"os"

	"github.com/dariuskan/archivecrawler/internal/config"
)

// Storage bundles the three persisted collaborators spec.md groups under
// one component: a probabilistic visited set, a TTL'd content cache, and a
// matches store. The visited set and the matches store each have their own
// mutex; the content cache relies on atomic file writes instead of a lock.
// Storage itself holds no lock.
type Storage struct {
	visited *visitedSet
	cache   *contentCache
	matches *matchesStore
}

// New builds Storage from resolved configuration. Call Load to replay any
// previously persisted state before use.
func New(cfg config.StorageConfig) (*Storage, error) {
	visited, err := newVisitedSet(
		cfg.BloomCapacity(),
		cfg.BloomErrorRate(),
		cfg.CacheDir()+"/bloom_filter.json",
		cfg.BloomPersistEvery(),
	)
	if err != nil {
		return nil, err
	}

	return &Storage{
		visited: visited,
		cache:   newContentCache(cfg.CacheDir(), cfg.CacheTTLDays()),
		matches: newMatchesStore(cfg.CacheDir() + "/matches.json"),
	}, nil
}

// Load replays the visited-set insertion list and matches document
// persisted by a prior run, if any exist on disk.
func (s *Storage) Load() error {
	if err := s.visited.load(); err != nil {
		return err
	}
	return s.matches.load()
}

// IsVisited reports whether url has already been seen, without mutating
// state. Prefer TestAndAdd at an admission chokepoint.
func (s *Storage) IsVisited(url string) bool {
	return s.visited.isVisited(url)
}

// TestAndAdd atomically tests membership and inserts url if absent,
// reporting whether the insertion happened. This is the single critical
// section spec.md §4.2's enqueue admission policy requires.
func (s *Storage) TestAndAdd(url string) (added bool, err error) {
	return s.visited.testAndAdd(url)
}

// GetCached returns a non-expired cached body for url, if one exists.
func (s *Storage) GetCached(url string) (body string, ok bool, err error) {
	return s.cache.get(url)
}

// PutCached writes body to the content cache for url.
func (s *Storage) PutCached(url, body string) error {
	return s.cache.put(url, body)
}

// SaveMatches appends matches under url, de-duplicated against everything
// already recorded for that URL, and returns how many were newly added.
func (s *Storage) SaveMatches(url string, matches []Match) int {
	return s.matches.save(url, matches)
}

// MatchCount reports how many matches are recorded for url.
func (s *Storage) MatchCount(url string) int {
	return s.matches.matchCount(url)
}

// PersistMatches writes the current matches document to disk atomically.
func (s *Storage) PersistMatches() error {
	return s.matches.persist()
}

// Flush persists the visited set unconditionally, used at shutdown
// regardless of the bloom_persist_every batching cadence.
func (s *Storage) Flush() error {
	return s.visited.flush()
}

func readFileIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}
