package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/dariuskan/archivecrawler/pkg/fileutil"
)

// visitedSet is a probabilistic dedup layer over normalized URLs. Membership
// may false-positive (the URL is then skipped) but never false-negatives.
// The filter itself has no native (de)serialization, so the set persists the
// ordered list of insertions and replays them into a fresh filter on load.
type visitedSet struct {
	mu           sync.Mutex
	filter       *bloom.BloomFilter
	insertions   []string
	persistPath  string
	persistEvery int
	sinceFlush   int
}

func newVisitedSet(capacity uint, errorRate float64, persistPath string, persistEvery int) (*visitedSet, error) {
	if persistEvery <= 0 {
		persistEvery = 1
	}
	return &visitedSet{
		filter:       bloom.NewWithEstimates(capacity, errorRate),
		persistPath:  persistPath,
		persistEvery: persistEvery,
	}, nil
}

// load replays a previously persisted insertion list, if one exists.
func (v *visitedSet) load() error {
	data, err := os.ReadFile(v.persistPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return newError(ErrCauseRead, err)
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return newError(ErrCauseUnmarshal, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, u := range urls {
		v.filter.Add([]byte(u))
	}
	v.insertions = urls
	return nil
}

// isVisited reports whether url has already been seen.
func (v *visitedSet) isVisited(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter.Test([]byte(url))
}

// testAndAdd is the admission chokepoint's single atomic operation: it
// reports whether url was newly added (true) or already present (false),
// testing and inserting under one lock so no URL is ever concurrently
// "not yet visited" to two callers.
func (v *visitedSet) testAndAdd(url string) (added bool, err error) {
	v.mu.Lock()
	if v.filter.Test([]byte(url)) {
		v.mu.Unlock()
		return false, nil
	}
	v.filter.Add([]byte(url))
	v.insertions = append(v.insertions, url)
	v.sinceFlush++
	shouldPersist := v.sinceFlush >= v.persistEvery
	if shouldPersist {
		v.sinceFlush = 0
	}
	snapshot := v.insertions
	v.mu.Unlock()

	if shouldPersist {
		if perr := persistInsertions(v.persistPath, snapshot); perr != nil {
			return true, perr
		}
	}
	return true, nil
}

// flush persists the insertion list unconditionally, used at shutdown.
func (v *visitedSet) flush() error {
	v.mu.Lock()
	snapshot := v.insertions
	v.mu.Unlock()
	return persistInsertions(v.persistPath, snapshot)
}

func persistInsertions(path string, urls []string) error {
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return newError(ErrCausePersist, err)
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return newError(ErrCauseMarshal, err)
	}
	if err := fileutil.WriteAtomic(path, data); err != nil {
		return newError(ErrCausePersist, err)
	}
	return nil
}
