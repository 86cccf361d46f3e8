package fetcher

import (
	"bufio"
	"math/rand"
	"os"
	"strings"
	"sync"
)

const defaultUserAgent = "archivecrawler/1.0"

// userAgentPool chooses uniformly at random from a file-loaded list of
// User-Agent strings for each request.
type userAgentPool struct {
	mu    sync.Mutex
	pool  []string
	rng   *rand.Rand
}

func loadUserAgentPool(path string) (*userAgentPool, error) {
	pool := &userAgentPool{rng: rand.New(rand.NewSource(rand.Int63()))}

	if path == "" {
		pool.pool = []string{defaultUserAgent}
		return pool, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			pool.pool = []string{defaultUserAgent}
			return pool, nil
		}
		return nil, &Error{Message: err.Error(), Retryable: false, Cause: ErrCauseUserAgentsFile}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pool.pool = append(pool.pool, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &Error{Message: err.Error(), Retryable: false, Cause: ErrCauseUserAgentsFile}
	}
	if len(pool.pool) == 0 {
		pool.pool = []string{defaultUserAgent}
	}
	return pool, nil
}

func (p *userAgentPool) pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pool[p.rng.Intn(len(p.pool))]
}
