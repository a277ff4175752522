// Package urlparse decomposes raw URL strings into the Host/Path/File/Query
// parts that rule conditions match against. It is a fast index-based
// parser rather than a full RFC 3986 implementation: it only needs to
// agree with how rules are authored, not handle every corner of the URI
// grammar.
package urlparse

import (
	"fmt"
	"strings"

	"github.com/ruleclassify/engine/pkg/rule"
)

const schemeSeparator = "://"

// InputError reports that a single URL line could not be parsed. It is
// never fatal: callers processing a batch of URLs record the line as
// invalid and continue.
type InputError struct {
	Raw string
	Msg string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %q", e.Msg, e.Raw)
}

// Parse decomposes raw into a ParsedUrl. It lowercases the host, strips a
// trailing port, and accepts input without a scheme, taking the host from
// the start of the string. It returns *InputError if raw is blank or has
// no parseable host.
func Parse(raw string) (rule.ParsedUrl, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return rule.ParsedUrl{}, &InputError{Raw: raw, Msg: "URL must not be blank"}
	}

	hostStart, err := findHostStart(trimmed, raw)
	if err != nil {
		return rule.ParsedUrl{}, err
	}

	pathStart := indexFrom(trimmed, hostStart, '/')
	queryStart := indexFrom(trimmed, hostStart, '?')

	host, err := extractHost(trimmed, raw, hostStart, pathStart, queryStart)
	if err != nil {
		return rule.ParsedUrl{}, err
	}
	path := extractPath(trimmed, pathStart, queryStart)
	file := extractFile(path)
	query := extractQuery(trimmed, queryStart)

	return rule.NewParsedUrl(host, path, file, query), nil
}

func indexFrom(s string, start int, b byte) int {
	i := strings.IndexByte(s[start:], b)
	if i < 0 {
		return -1
	}
	return i + start
}

func findHostStart(toParse, raw string) (int, error) {
	pos := strings.Index(toParse, schemeSeparator)
	if pos < 0 {
		return 0, nil
	}
	if pos == 0 {
		return 0, &InputError{Raw: raw, Msg: "could not parse host from URL"}
	}
	return pos + len(schemeSeparator), nil
}

func extractHost(toParse, raw string, hostStart, pathStart, queryStart int) (string, error) {
	hostEnd := firstDelimiterOrEnd(toParse, pathStart, queryStart)
	host := toParse[hostStart:hostEnd]

	if colon := strings.IndexByte(host, ':'); colon >= 0 {
		host = host[:colon]
	}

	if host == "" {
		return "", &InputError{Raw: raw, Msg: "could not parse host from URL"}
	}
	return strings.ToLower(host), nil
}

func firstDelimiterOrEnd(toParse string, pathStart, queryStart int) int {
	switch {
	case pathStart >= 0 && queryStart >= 0:
		return min(pathStart, queryStart)
	case pathStart >= 0:
		return pathStart
	case queryStart >= 0:
		return queryStart
	default:
		return len(toParse)
	}
}

func extractPath(toParse string, pathStart, queryStart int) string {
	if pathStart < 0 || (queryStart >= 0 && pathStart >= queryStart) {
		return ""
	}
	pathEnd := len(toParse)
	if queryStart >= 0 {
		pathEnd = queryStart
	}
	return toParse[pathStart:pathEnd]
}

func extractQuery(toParse string, queryStart int) string {
	if queryStart < 0 {
		return ""
	}
	return toParse[queryStart+1:]
}

func extractFile(path string) string {
	if path == "" {
		return ""
	}
	if pos := strings.LastIndexByte(path, '/'); pos >= 0 {
		return path[pos+1:]
	}
	return path
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
