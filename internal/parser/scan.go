package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dariuskan/archivecrawler/internal/storage"
	"github.com/dlclark/regexp2"
	"golang.org/x/net/html"
)

const maxContextLen = 500

// truncateContext trims surrounding whitespace and caps a context fragment
// at maxContextLen runes, appending an ellipsis when it had to cut.
func truncateContext(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxContextLen {
		return s
	}
	return string(r[:maxContextLen]) + "..."
}

func collapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// findAllMatches returns every non-overlapping match of re within text, in
// order.
func findAllMatches(re *regexp2.Regexp, text string) []string {
	var out []string
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		out = append(out, m.String())
		m, err = re.FindNextMatch(m)
	}
	return out
}

func scanFragment(patterns []*regexp2.Regexp, text string, loc storage.MatchLocation, context string, now time.Time) []storage.Match {
	if text == "" {
		return nil
	}
	var out []storage.Match
	ctx := truncateContext(context)
	for _, re := range patterns {
		for _, val := range findAllMatches(re, text) {
			out = append(out, storage.Match{
				Value:     val,
				Type:      loc,
				Context:   ctx,
				Timestamp: now,
			})
		}
	}
	return out
}

func scanVisibleText(doc *goquery.Document, patterns []*regexp2.Regexp, now time.Time) []storage.Match {
	text := collapseWhitespace(doc.Find("body").Text())
	return scanFragment(patterns, text, storage.LocationText, text, now)
}

func scanTitle(doc *goquery.Document, patterns []*regexp2.Regexp, now time.Time) []storage.Match {
	title := collapseWhitespace(doc.Find("title").First().Text())
	return scanFragment(patterns, title, storage.LocationText, title, now)
}

func scanMeta(doc *goquery.Document, patterns []*regexp2.Regexp, now time.Time) []storage.Match {
	var out []storage.Match
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content, ok := sel.Attr("content")
		if !ok || content == "" {
			return
		}
		fragment := metaFragment(sel)
		out = append(out, scanFragment(patterns, content, storage.LocationMeta, fragment, now)...)
	})
	return out
}

func metaFragment(sel *goquery.Selection) string {
	name, _ := sel.Attr("name")
	content, _ := sel.Attr("content")
	if name != "" {
		return fmt.Sprintf(`<meta name=%q content=%q>`, name, content)
	}
	return fmt.Sprintf(`<meta content=%q>`, content)
}

// scanAttributes covers every element attribute except <meta content> (its
// own surface, scanMeta) and special-cases <img> so src/alt/title
// carry their own match types instead of the generic attr one.
func scanAttributes(doc *goquery.Document, patterns []*regexp2.Regexp, now time.Time) []storage.Match {
	var out []storage.Match
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		tag := node.Data
		for _, attr := range node.Attr {
			if tag == "meta" && attr.Key == "content" {
				continue
			}
			if attr.Val == "" {
				continue
			}
			loc := attrLocation(tag, attr.Key)
			fragment := fmt.Sprintf(`<%s %s=%q>`, tag, attr.Key, attr.Val)
			out = append(out, scanFragment(patterns, attr.Val, loc, fragment, now)...)
		}
	})
	return out
}

func attrLocation(tag, attr string) storage.MatchLocation {
	if tag != "img" {
		return storage.LocationAttr
	}
	switch attr {
	case "src":
		return storage.LocationImgSrc
	case "alt":
		return storage.LocationImgAlt
	case "title":
		return storage.LocationImgTitle
	default:
		return storage.LocationAttr
	}
}

func scanScripts(doc *goquery.Document, patterns []*regexp2.Regexp, now time.Time) []storage.Match {
	var out []storage.Match
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		body := sel.Text()
		out = append(out, scanFragment(patterns, body, storage.LocationScript, body, now)...)
	})
	return out
}

// scanComments walks the raw node tree since goquery selections only cover
// element nodes.
func scanComments(doc *goquery.Document, patterns []*regexp2.Regexp, now time.Time) []storage.Match {
	var out []storage.Match
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			out = append(out, scanFragment(patterns, n.Data, storage.LocationComment, n.Data, now)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if doc.Nodes != nil && len(doc.Nodes) > 0 {
		walk(doc.Nodes[0])
	}
	return out
}

func scanLinks(links []string, patterns []*regexp2.Regexp, now time.Time) []storage.Match {
	var out []storage.Match
	for _, link := range links {
		out = append(out, scanFragment(patterns, link, storage.LocationLink, link, now)...)
	}
	return out
}

// dedupMatches preserves first-seen order, collapsing matches that share
// the same (type, value, context) triple.
func dedupMatches(matches []storage.Match) []storage.Match {
	seen := make(map[string]struct{}, len(matches))
	out := make([]storage.Match, 0, len(matches))
	for _, m := range matches {
		key := string(m.Type) + "|" + m.Value + "|" + m.Context
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

func dedupStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
