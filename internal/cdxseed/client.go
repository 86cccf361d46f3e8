package cdxseed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dariuskan/archivecrawler/internal/config"
	"github.com/dariuskan/archivecrawler/pkg/failure"
	"github.com/dariuskan/archivecrawler/pkg/retry"
	"github.com/dariuskan/archivecrawler/pkg/timeutil"
)

const defaultCDXEndpoint = "https://web.archive.org/cdx/search/cdx"

// Client queries the archive's CDX index API for one domain at a time,
// paginating with the API's Resume-Key header.
type Client struct {
	httpClient *http.Client
	cfg        config.CDXConfig
	endpoint   string
}

func NewClient(cfg config.CDXConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		cfg:        cfg,
		endpoint:   defaultCDXEndpoint,
	}
}

// NewClientWithEndpoint builds a Client against a non-default CDX endpoint,
// used by tests to point at an httptest server.
func NewClientWithEndpoint(cfg config.CDXConfig, endpoint string) *Client {
	c := NewClient(cfg)
	c.endpoint = endpoint
	return c
}

// FetchSnapshots returns the CDX rows for domain within [fromDate, toDate]
// (14-digit wayback timestamps) in page order, retrying the full paginated
// fetch on transport failure, 429, and 5xx. Rows are not de-duplicated here;
// Seeder de-duplicates the snapshot URLs built from them.
func (c *Client) FetchSnapshots(ctx context.Context, domain, fromDate, toDate string) ([]Row, failure.ClassifiedError) {
	retryParam := retry.NewRetryParam(
		time.Second,
		200*time.Millisecond,
		time.Now().UnixNano(),
		c.cfg.MaxRetries()+1,
		timeutil.NewBackoffParam(time.Second, c.cfg.BackoffFactor(), 30*time.Second),
	)

	result := retry.Retry(retryParam, func() ([]Row, failure.ClassifiedError) {
		return c.fetchOnePass(ctx, domain, fromDate, toDate)
	})

	if !result.Success() {
		return nil, toClassifiedError(result.Err())
	}
	return result.Value(), nil
}

func toClassifiedError(err error) failure.ClassifiedError {
	if err == nil {
		return nil
	}
	if classified, ok := err.(failure.ClassifiedError); ok {
		return classified
	}
	return &Error{Message: err.Error(), Retryable: false, Cause: ErrCauseNetworkFailure}
}

// fetchOnePass performs the initial request and follows Resume-Key until
// exhausted or cfg.MaxPages() is reached (0 = uncapped). A malformed JSON
// page after at least one good page stops pagination and returns whatever
// was already decoded, matching the original's per-page try/except. A
// malformed first page has nothing to fall back on, so it fails the whole
// attempt without a retry (malformed responses don't self-heal for the same
// query).
func (c *Client) fetchOnePass(ctx context.Context, domain, fromDate, toDate string) ([]Row, failure.ClassifiedError) {
	params := c.baseParams(domain, fromDate, toDate)

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	rows, ok := decodeCDXPage(body)
	if !ok {
		return nil, &Error{
			Message:   "first cdx page is not valid JSON",
			Retryable: false,
			Cause:     ErrCauseMalformedPayload,
		}
	}

	page := 1
	for body.resumeKey != "" && (c.cfg.MaxPages() == 0 || page < c.cfg.MaxPages()) {
		params.Set("resumeKey", body.resumeKey)

		nextBody, err := c.doRequest(ctx, params)
		if err != nil {
			return nil, err
		}

		moreRows, ok := decodeCDXPage(nextBody)
		if !ok {
			break
		}
		rows = append(rows, moreRows...)
		body = nextBody
		page++
	}

	return rows, nil
}

func (c *Client) baseParams(domain, fromDate, toDate string) url.Values {
	params := url.Values{}
	params.Set("url", domain+"/*")
	params.Set("matchType", "domain")
	params.Set("from", fromDate)
	params.Set("to", toDate)
	params.Set("output", "json")
	params.Set("fl", "timestamp,original,statuscode,mimetype")
	params.Set("filter", "statuscode:200")
	params.Add("filter", "mimetype:text/html")
	params.Set("collapse", "urlkey")
	params.Set("limit", strconv.Itoa(c.cfg.PageSize()))
	params.Set("showResumeKey", "true")
	return params
}

type cdxResponseBody struct {
	raw       []byte
	resumeKey string
}

func (c *Client) doRequest(ctx context.Context, params url.Values) (cdxResponseBody, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return cdxResponseBody{}, &Error{Message: err.Error(), Retryable: false, Cause: ErrCauseNetworkFailure}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cdxResponseBody{}, &Error{Message: err.Error(), Retryable: true, Cause: ErrCauseNetworkFailure}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		time.Sleep(retryAfter)
		return cdxResponseBody{}, &Error{
			Message:   fmt.Sprintf("rate limited, retried after %s", retryAfter),
			Retryable: true,
			Cause:     ErrCauseRateLimited,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return cdxResponseBody{}, &Error{
			Message:   fmt.Sprintf("unexpected status %d", resp.StatusCode),
			Retryable: resp.StatusCode >= 500,
			Cause:     ErrCauseHTTPStatus,
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return cdxResponseBody{}, &Error{Message: err.Error(), Retryable: true, Cause: ErrCauseNetworkFailure}
	}

	return cdxResponseBody{raw: raw, resumeKey: resp.Header.Get("Resume-Key")}, nil
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 60 * time.Second
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return 60 * time.Second
}

// decodeCDXPage parses a CDX JSON page: a list-of-lists whose first row is a
// header naming each column. ok is false for any non-list or malformed body.
func decodeCDXPage(body cdxResponseBody) (rows []Row, ok bool) {
	var data [][]string
	if err := json.Unmarshal(body.raw, &data); err != nil {
		return nil, false
	}
	if len(data) < 2 {
		return nil, true
	}

	header := data[0]
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}

	tsIdx, hasTs := idx["timestamp"]
	origIdx, hasOrig := idx["original"]
	if !hasTs || !hasOrig {
		return nil, false
	}

	for _, entry := range data[1:] {
		if len(entry) <= tsIdx || len(entry) <= origIdx {
			continue
		}
		row := Row{Timestamp: entry[tsIdx], Original: entry[origIdx]}
		if i, ok := idx["statuscode"]; ok && i < len(entry) {
			row.StatusCode = entry[i]
		}
		if i, ok := idx["mimetype"]; ok && i < len(entry) {
			row.ContentType = entry[i]
		}
		rows = append(rows, row)
	}
	return rows, true
}
