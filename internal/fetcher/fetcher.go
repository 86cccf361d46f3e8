package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dariuskan/archivecrawler/internal/config"
	"github.com/dariuskan/archivecrawler/pkg/failure"
	"github.com/dariuskan/archivecrawler/pkg/limiter"
	"github.com/dariuskan/archivecrawler/pkg/retry"
	"github.com/dariuskan/archivecrawler/pkg/timeutil"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// cacheStore is the slice of Storage the fetcher needs: a TTL'd content
// cache keyed by URL, consulted before any network I/O.
type cacheStore interface {
	GetCached(url string) (body string, ok bool, err error)
	PutCached(url, body string) error
}

/*
Fetcher responsibilities:
- Perform HTTP GETs against archive replay URLs
- Rotate User-Agent per request
- Bound global concurrency with a semaphore sized to max_concurrent
- Pace per-host requests with a token bucket plus backoff/crawl-delay state
- Retry transient failures with exponential backoff
- Filter to text/html, decoding the server-declared charset
- Consult and populate the content cache

The fetcher never parses content; it only returns decoded body text.
*/
type Fetcher struct {
	httpClient  *http.Client
	cache       cacheStore
	userAgents  *userAgentPool
	gate        *semaphore.Weighted
	hostRatesMu sync.Mutex
	hostRates   map[string]*rate.Limiter
	rateLimit   time.Duration
	limiter     *limiter.ConcurrentRateLimiter
	maxRetries  int
	log         zerolog.Logger
}

// New builds a Fetcher from resolved configuration. cache is typically
// *storage.Storage.
func New(cfg config.Config, cache cacheStore, log zerolog.Logger) (*Fetcher, error) {
	uaPool, err := loadUserAgentPool(cfg.Fetch().UserAgentsFile())
	if err != nil {
		return nil, err
	}

	rl := limiter.NewConcurrentRateLimiter()
	rl.SetBaseDelay(cfg.Fetch().RateLimit())

	return &Fetcher{
		httpClient: &http.Client{Timeout: cfg.CDX().RequestTimeout()},
		cache:      cache,
		userAgents: uaPool,
		gate:       semaphore.NewWeighted(int64(cfg.MaxConcurrent())),
		hostRates:  make(map[string]*rate.Limiter),
		rateLimit:  cfg.Fetch().RateLimit(),
		limiter:    rl,
		maxRetries: cfg.MaxRetries(),
		log:        log,
	}, nil
}

// Fetch returns (body, finalURL) for fetchURL, consulting the content cache
// first. A non-200 status, a non-HTML content type, or exhausted retries
// return a non-nil ClassifiedError, and the caller drops the URL.
func (f *Fetcher) Fetch(ctx context.Context, fetchURL string) (Result, failure.ClassifiedError) {
	if body, ok, err := f.cache.GetCached(fetchURL); err == nil && ok {
		return Result{FinalURL: fetchURL, Body: body, FetchedAt: time.Now(), FromCache: true}, nil
	}

	if err := f.gate.Acquire(ctx, 1); err != nil {
		return Result{}, &Error{Message: err.Error(), Retryable: false, Cause: ErrCauseNetworkFailure}
	}
	defer f.gate.Release(1)

	host, err := hostOf(fetchURL)
	if err != nil {
		return Result{}, &Error{Message: err.Error(), Retryable: false, Cause: ErrCauseNetworkFailure}
	}

	if waitErr := f.waitForSlot(ctx, host); waitErr != nil {
		return Result{}, &Error{Message: waitErr.Error(), Retryable: false, Cause: ErrCauseNetworkFailure}
	}

	retryParam := retry.NewRetryParam(
		time.Second,
		200*time.Millisecond,
		time.Now().UnixNano(),
		f.maxRetries+1,
		timeutil.NewBackoffParam(time.Second, 2.0, 30*time.Second),
	)

	result := retry.Retry(retryParam, func() (Result, failure.ClassifiedError) {
		return f.performFetch(fetchURL)
	})

	f.limiter.MarkLastFetchAsNow(host)

	if !result.Success() {
		f.limiter.Backoff(host)
		if classified, ok := result.Err().(failure.ClassifiedError); ok {
			return Result{}, classified
		}
		return Result{}, &Error{Message: result.Err().Error(), Retryable: false, Cause: ErrCauseNetworkFailure}
	}
	f.limiter.ResetBackoff(host)

	fetched := result.Value()
	if !fetched.FromCache {
		if err := f.cache.PutCached(fetchURL, fetched.Body); err != nil {
			f.log.Warn().Err(err).Str("url", fetchURL).Msg("failed to write content cache")
		}
	}
	return fetched, nil
}

// waitForSlot blocks until host's token bucket and pkg/limiter backoff/
// crawl-delay window both permit the next request.
func (f *Fetcher) waitForSlot(ctx context.Context, host string) error {
	hostLimiter := f.hostLimiterFor(host)
	if err := hostLimiter.Wait(ctx); err != nil {
		return err
	}

	if delay := f.limiter.ResolveDelay(host); delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

func (f *Fetcher) hostLimiterFor(host string) *rate.Limiter {
	f.hostRatesMu.Lock()
	defer f.hostRatesMu.Unlock()

	if l, ok := f.hostRates[host]; ok {
		return l
	}
	every := f.rateLimit
	if every <= 0 {
		every = time.Millisecond
	}
	l := rate.NewLimiter(rate.Every(every), 1)
	f.hostRates[host] = l
	return l
}

func (f *Fetcher) performFetch(fetchURL string) (Result, failure.ClassifiedError) {
	req, err := http.NewRequest(http.MethodGet, fetchURL, nil)
	if err != nil {
		return Result{}, &Error{Message: err.Error(), Retryable: false, Cause: ErrCauseNetworkFailure}
	}
	req.Header.Set("User-Agent", f.userAgents.pick())
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Result{}, &Error{Message: err.Error(), Retryable: true, Cause: ErrCauseNetworkFailure}
	}
	defer resp.Body.Close()

	// 5xx and 429 are retried as transient even though spec.md §4.3's plain
	// reading of "non-200: no retry" would drop them immediately; both are
	// squarely within the transient taxonomy §7 carves out, so retrying them
	// here rather than treating every non-200 alike is intentional.
	switch {
	case resp.StatusCode >= 500:
		return Result{}, &Error{Message: fmt.Sprintf("server error: %d", resp.StatusCode), Retryable: true, Cause: ErrCauseRequest5xx}
	case resp.StatusCode == http.StatusTooManyRequests:
		return Result{}, &Error{Message: "rate limited", Retryable: true, Cause: ErrCauseRequestTooMany}
	case resp.StatusCode == http.StatusForbidden:
		return Result{}, &Error{Message: "forbidden", Retryable: false, Cause: ErrCauseRequestForbidden}
	case resp.StatusCode != http.StatusOK:
		return Result{}, &Error{Message: fmt.Sprintf("unexpected status %d", resp.StatusCode), Retryable: false, Cause: ErrCauseRequestClientError}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return Result{}, &Error{Message: fmt.Sprintf("non-html content type: %s", contentType), Retryable: false, Cause: ErrCauseContentTypeInvalid}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &Error{Message: err.Error(), Retryable: true, Cause: ErrCauseReadBodyFailed}
	}

	return Result{
		FinalURL:  fetchURL,
		Body:      decodeBody(raw, contentType),
		FetchedAt: time.Now(),
	}, nil
}

// Close releases the underlying HTTP client's idle connections. Callers
// should invoke it once, after the last Fetch has returned.
func (f *Fetcher) Close() {
	f.httpClient.CloseIdleConnections()
}

func hostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.Hostname(), nil
}
