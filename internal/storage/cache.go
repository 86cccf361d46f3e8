package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dariuskan/archivecrawler/pkg/fileutil"
	"github.com/dariuskan/archivecrawler/pkg/hashutil"
)

// contentCache stores fetched HTML bodies on disk keyed by SHA-256(url),
// with an mtime-based TTL. Expired entries are deleted on read.
type contentCache struct {
	dir    string
	ttl    time.Duration
	nowFn  func() time.Time
}

func newContentCache(dir string, ttlDays int) *contentCache {
	return &contentCache{
		dir:   dir,
		ttl:   time.Duration(ttlDays) * 24 * time.Hour,
		nowFn: time.Now,
	}
}

func (c *contentCache) filename(url string) (string, error) {
	hash, err := hashutil.HashBytes([]byte(url), hashutil.HashAlgoSHA256)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dir, hash+".html"), nil
}

// get returns the cached body for url, or ok=false if no valid entry
// exists. An expired entry is removed before returning false.
func (c *contentCache) get(url string) (body string, ok bool, err error) {
	path, err := c.filename(url)
	if err != nil {
		return "", false, newError(ErrCauseRead, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, newError(ErrCauseRead, err)
	}

	if c.nowFn().Sub(info.ModTime()) > c.ttl {
		os.Remove(path)
		return "", false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, newError(ErrCauseRead, err)
	}
	return string(data), true, nil
}

// put writes body to the cache atomically.
func (c *contentCache) put(url, body string) error {
	path, err := c.filename(url)
	if err != nil {
		return newError(ErrCausePersist, err)
	}
	if err := fileutil.EnsureDir(c.dir); err != nil {
		return newError(ErrCausePersist, err)
	}
	if err := fileutil.WriteAtomic(path, []byte(body)); err != nil {
		return newError(ErrCausePersist, err)
	}
	return nil
}
