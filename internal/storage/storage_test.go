package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dariuskan/archivecrawler/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storageConfigIn(t *testing.T, dir string) config.StorageConfig {
	t.Helper()

	yamlPath := filepath.Join(dir, "config.yaml")
	contents := fmt.Sprintf(`
cdx:
  target_domains_file: %q
parser:
  patterns_file: %q
storage:
  cache_dir: %q
  bloom_capacity: 1000
  bloom_error_rate: 0.01
  cache_ttl_days: 1
  bloom_persist_every: 2
`, filepath.Join(dir, "domains.txt"), filepath.Join(dir, "patterns.txt"), dir)
	require.NoError(t, os.WriteFile(yamlPath, []byte(contents), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "domains.txt"), []byte("example.com\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patterns.txt"), []byte("keyword\n"), 0o644))

	cfg, err := config.Load(yamlPath)
	require.NoError(t, err)
	return cfg.Storage()
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(storageConfigIn(t, t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, s.Load())
	return s
}

func TestStorage_TestAndAddIsAtomicAndDedups(t *testing.T) {
	s := newTestStorage(t)

	added, err := s.TestAndAdd("http://web.archive.org/web/20200101000000/example.com")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.TestAndAdd("http://web.archive.org/web/20200101000000/example.com")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestStorage_IsVisitedWithoutMutating(t *testing.T) {
	s := newTestStorage(t)
	assert.False(t, s.IsVisited("http://example.com/a"))

	_, err := s.TestAndAdd("http://example.com/a")
	require.NoError(t, err)
	assert.True(t, s.IsVisited("http://example.com/a"))
}

func TestStorage_CacheRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	_, ok, err := s.GetCached("http://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PutCached("http://example.com/a", "<html>hi</html>"))

	body, ok, err := s.GetCached("http://example.com/a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<html>hi</html>", body)
}

func TestStorage_CacheExpiresByTTL(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.PutCached("http://example.com/a", "stale"))

	s.cache.nowFn = func() time.Time { return time.Now().Add(365 * 24 * time.Hour) }

	_, ok, err := s.GetCached("http://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_SaveMatchesDedupsByValueTypeContext(t *testing.T) {
	s := newTestStorage(t)

	m := Match{Value: "keyword", Type: LocationText, Context: "...keyword here...", Timestamp: time.Unix(0, 0)}
	added := s.SaveMatches("http://example.com/a", []Match{m, m})
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, s.MatchCount("http://example.com/a"))
}

func TestStorage_PersistAndLoadMatches(t *testing.T) {
	dir := t.TempDir()
	cfg := storageConfigIn(t, dir)

	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Load())

	m := Match{Value: "keyword", Type: LocationText, Context: "ctx", Timestamp: time.Unix(0, 0)}
	s.SaveMatches("http://example.com/a", []Match{m})
	require.NoError(t, s.PersistMatches())

	reloaded, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 1, reloaded.MatchCount("http://example.com/a"))
}

func TestStorage_FlushPersistsVisitedSet(t *testing.T) {
	dir := t.TempDir()
	cfg := storageConfigIn(t, dir)

	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Load())

	_, err = s.TestAndAdd("http://example.com/a")
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	reloaded, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	assert.True(t, reloaded.IsVisited("http://example.com/a"))
}
