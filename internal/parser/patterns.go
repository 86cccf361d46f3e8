package parser

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// builtinPatterns are appended to every loaded pattern set regardless of the
// patterns file contents. They are already regular expressions, not escaped
// literals.
var builtinPatterns = []string{
	`j+e+f+f+\s*t+h+e+\s*k+i+l+l+e+r`,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// compilePatterns loads patterns from path (blank lines and lines starting
// with '#' are skipped) and compiles each into a regexp2.Regexp.
//
// A line containing any non-ASCII codepoint is compiled as an escaped
// literal: transliteration artifacts aside, word-boundary anchoring and
// whitespace-collapsing are ASCII-oriented heuristics that don't generalize
// to scripts without the Latin notion of a word boundary. An ASCII line is
// escaped, has interior whitespace runs collapsed to `\s+`, and is anchored
// with `\b` on both ends. Every pattern is case-insensitive unless
// caseSensitive is set.
func compilePatterns(path string, caseSensitive bool) ([]*regexp2.Regexp, error) {
	lines, err := readPatternLines(path)
	if err != nil {
		return nil, err
	}

	opts := regexp2.None
	if !caseSensitive {
		opts = regexp2.IgnoreCase
	}

	compiled := make([]*regexp2.Regexp, 0, len(lines)+len(builtinPatterns))
	for _, line := range lines {
		re, err := regexp2.Compile(buildPatternExpr(line), opts)
		if err != nil {
			return nil, newError(ErrCauseBadPattern, err)
		}
		compiled = append(compiled, re)
	}
	for _, expr := range builtinPatterns {
		re, err := regexp2.Compile(expr, opts)
		if err != nil {
			return nil, newError(ErrCauseBadPattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// compileLinkFilters compiles each raw regex in filters as-is (these are
// full patterns a caller wrote, not bare keywords, so no escaping or
// anchoring is applied).
func compileLinkFilters(filters []string) ([]*regexp2.Regexp, error) {
	compiled := make([]*regexp2.Regexp, 0, len(filters))
	for _, expr := range filters {
		re, err := regexp2.Compile(expr, regexp2.None)
		if err != nil {
			return nil, newError(ErrCauseBadPattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func readPatternLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(ErrCausePatternsFile, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, newError(ErrCausePatternsFile, err)
	}
	return lines, nil
}

func isNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}

// buildPatternExpr turns a raw line from the patterns file into the
// regexp2 expression it should compile to. Builtin patterns are already
// regular expressions and bypass this function entirely (see
// compilePatterns).
func buildPatternExpr(line string) string {
	if isNonASCII(line) {
		return regexp.QuoteMeta(line)
	}
	escaped := regexp.QuoteMeta(line)
	collapsed := whitespaceRun.ReplaceAllString(escaped, `\s+`)
	return `\b` + collapsed + `\b`
}
