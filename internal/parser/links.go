package parser

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/dariuskan/archivecrawler/pkg/urlutil"
	"github.com/dlclark/regexp2"
)

// linkAttrsByTag names the attributes link extraction collects per element.
var linkAttrsByTag = map[string][]string{
	"a":      {"href"},
	"img":    {"src"},
	"script": {"src"},
	"iframe": {"src"},
	"link":   {"href"},
}

// extractLinks walks doc for href/src attributes on the elements spec.md
// names, resolves each against base, and keeps only those that land back on
// the archive host under one of the configured target-domain prefixes and
// are not rejected by any configured URL exclude filter. Order is
// first-seen, de-duplicated.
func extractLinks(doc *goquery.Document, base *url.URL, archiveHost string, targetDomainPrefixes []string, linkFilters []*regexp2.Regexp) []string {
	seen := make(map[string]struct{})
	var out []string

	doc.Find("a, img, script, iframe, link").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range linkAttrsByTag[goquery.NodeName(sel)] {
			val, ok := sel.Attr(attr)
			if !ok || val == "" {
				continue
			}
			resolved, ok := resolveAndFilter(val, base, archiveHost, targetDomainPrefixes)
			if !ok || !passesLinkFilters(resolved, linkFilters) {
				continue
			}
			if _, dup := seen[resolved]; dup {
				continue
			}
			seen[resolved] = struct{}{}
			out = append(out, resolved)
		}
	})
	return out
}

// passesLinkFilters reports whether resolved is admitted by url_filters.
// Filters are exclude patterns: resolved is rejected if any filter matches
// it. An empty filter set admits everything.
func passesLinkFilters(resolved string, linkFilters []*regexp2.Regexp) bool {
	for _, re := range linkFilters {
		if ok, _ := re.MatchString(resolved); ok {
			return false
		}
	}
	return true
}

func resolveAndFilter(raw string, base *url.URL, archiveHost string, targetDomainPrefixes []string) (string, bool) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)

	if !urlutil.IsArchiveHost(resolved.Hostname(), archiveHost) {
		return "", false
	}

	_, original, ok := urlutil.ParseSnapshotURL(resolved, archiveHost)
	if !ok || !urlutil.HasTargetDomainPrefix(original, targetDomainPrefixes) {
		return "", false
	}

	canonical := urlutil.Canonicalize(*resolved)
	return canonical.String(), true
}
