package storage

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"github.com/dariuskan/archivecrawler/pkg/fileutil"
	"github.com/dariuskan/archivecrawler/pkg/hashutil"
)

// MatchLocation names the scan surface a match was found on.
type MatchLocation string

const (
	LocationText     MatchLocation = "text"
	LocationAttr     MatchLocation = "attr"
	LocationComment  MatchLocation = "comment"
	LocationMeta     MatchLocation = "meta"
	LocationImgSrc   MatchLocation = "img_src"
	LocationImgAlt   MatchLocation = "img_alt"
	LocationImgTitle MatchLocation = "img_title"
	LocationLink     MatchLocation = "link"
	LocationScript   MatchLocation = "script"
)

// Match is a single keyword-pattern occurrence.
type Match struct {
	Value     string        `json:"value"`
	Type      MatchLocation `json:"type"`
	Context   string        `json:"context"`
	Timestamp time.Time     `json:"timestamp"`
}

// matchesStore holds matches grouped by URL, persisted as one JSON document.
// Byte-identical context snippets recorded twice for the same URL are
// collapsed via a blake3 digest of (value, type, context) rather than a
// second full string compare.
type matchesStore struct {
	mu          sync.Mutex
	byURL       map[string][]Match
	seenDigests map[string]map[string]struct{}
	path        string
}

func newMatchesStore(path string) *matchesStore {
	return &matchesStore{
		byURL:       make(map[string][]Match),
		seenDigests: make(map[string]map[string]struct{}),
		path:        path,
	}
}

func (s *matchesStore) load() error {
	data, err := readFileIfExists(s.path)
	if err != nil {
		return newError(ErrCauseRead, err)
	}
	if data == nil {
		return nil
	}

	var byURL map[string][]Match
	if err := json.Unmarshal(data, &byURL); err != nil {
		return newError(ErrCauseUnmarshal, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byURL = byURL
	for url, matches := range byURL {
		for _, m := range matches {
			s.markSeenLocked(url, m)
		}
	}
	return nil
}

func (s *matchesStore) markSeenLocked(url string, m Match) {
	digest, err := hashutil.HashBytes([]byte(string(m.Type)+"|"+m.Value+"|"+m.Context), hashutil.HashAlgoBLAKE3)
	if err != nil {
		return
	}
	if s.seenDigests[url] == nil {
		s.seenDigests[url] = make(map[string]struct{})
	}
	s.seenDigests[url][digest] = struct{}{}
}

// save appends matches under url, skipping any already-recorded
// byte-identical (value, type, context) triple for that URL.
func (s *matchesStore) save(url string, matches []Match) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, m := range matches {
		digest, err := hashutil.HashBytes([]byte(string(m.Type)+"|"+m.Value+"|"+m.Context), hashutil.HashAlgoBLAKE3)
		if err != nil {
			continue
		}
		if s.seenDigests[url] != nil {
			if _, ok := s.seenDigests[url][digest]; ok {
				continue
			}
		}
		s.byURL[url] = append(s.byURL[url], m)
		s.markSeenLocked(url, m)
		added++
	}
	return added
}

// persist writes the current in-memory map to disk atomically. Callers
// outside the process see only the snapshot taken at the instant the lock
// was held.
func (s *matchesStore) persist() error {
	s.mu.Lock()
	snapshot := make(map[string][]Match, len(s.byURL))
	for url, matches := range s.byURL {
		snapshot[url] = matches
	}
	s.mu.Unlock()

	if err := fileutil.EnsureDir(filepath.Dir(s.path)); err != nil {
		return newError(ErrCausePersist, err)
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return newError(ErrCauseMarshal, err)
	}
	if err := fileutil.WriteAtomic(s.path, data); err != nil {
		return newError(ErrCausePersist, err)
	}
	return nil
}

func (s *matchesStore) matchCount(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byURL[url])
}
