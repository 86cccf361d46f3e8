package parser

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dariuskan/archivecrawler/internal/config"
	"github.com/dariuskan/archivecrawler/internal/storage"
	"github.com/dariuskan/archivecrawler/pkg/failure"
	"github.com/dlclark/regexp2"
)

/*
Parser responsibilities:
- Compile keyword patterns once at startup
- Scan a fetched page across every surface spec.md names, in a fixed order
- Extract and filter links back into the crawl's target domains
- Return de-duplicated matches and de-duplicated discovered URLs

The parser never fetches or caches; it is pure given (html, baseURL).
*/
type Parser struct {
	patterns             []*regexp2.Regexp
	linkFilters          []*regexp2.Regexp
	archiveHost          string
	targetDomainPrefixes []string
	now                  func() time.Time
}

// New compiles the configured patterns and loads the target-domain prefix
// list cdx.target_domains_file names, the same file internal/cdxseed reads
// to seed the crawl. parser.url_filters, if set, are compiled as exclude
// patterns: a discovered link matching any of them is dropped, beyond the
// archive-host and target-domain checks spec.md §4.4 mandates.
func New(cfg config.Config) (*Parser, error) {
	patterns, err := compilePatterns(cfg.Parser().PatternsFile(), cfg.Parser().CaseSensitive())
	if err != nil {
		return nil, err
	}

	linkFilters, err := compileLinkFilters(cfg.Parser().URLFilters())
	if err != nil {
		return nil, err
	}

	domains, err := readDomainsFile(cfg.CDX().TargetDomainsFile())
	if err != nil {
		return nil, err
	}

	return &Parser{
		patterns:             patterns,
		linkFilters:          linkFilters,
		archiveHost:          cfg.CDX().ArchiveHost(),
		targetDomainPrefixes: domains,
		now:                  time.Now,
	}, nil
}

func readDomainsFile(path string) ([]string, error) {
	lines, err := readPatternLines(path)
	if err != nil {
		return nil, &Error{Message: err.Error(), Cause: ErrCauseDomainsFile}
	}
	return lines, nil
}

// Result is the parser's output for one page: de-duplicated matches in
// first-seen order, and de-duplicated discovered URLs in first-seen order.
type Result struct {
	Matches        []storage.Match
	DiscoveredURLs []string
}

// Parse scans htmlBody (already decoded text) against every keyword pattern
// across all seven scan surfaces and extracts outbound links, resolving
// relative references against baseURL.
func (p *Parser) Parse(htmlBody string, baseURL string) (Result, failure.ClassifiedError) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return Result{}, &Error{Message: err.Error(), Cause: ErrCauseMalformedInput}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return Result{}, &Error{Message: err.Error(), Cause: ErrCauseMalformedInput}
	}

	now := p.now()
	links := extractLinks(doc, base, p.archiveHost, p.targetDomainPrefixes, p.linkFilters)

	var matches []storage.Match
	matches = append(matches, scanVisibleText(doc, p.patterns, now)...)
	matches = append(matches, scanTitle(doc, p.patterns, now)...)
	matches = append(matches, scanMeta(doc, p.patterns, now)...)
	matches = append(matches, scanAttributes(doc, p.patterns, now)...)
	matches = append(matches, scanScripts(doc, p.patterns, now)...)
	matches = append(matches, scanComments(doc, p.patterns, now)...)
	matches = append(matches, scanLinks(links, p.patterns, now)...)

	return Result{
		Matches:        dedupMatches(matches),
		DiscoveredURLs: dedupStrings(links),
	}, nil
}
