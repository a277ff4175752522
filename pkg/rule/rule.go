// Package rule defines the data model shared by the rule index and the
// rule engine: URL parts, matching operators, conditions, rules, and the
// parsed URL they are evaluated against.
package rule

// Operator is a string-matching operator a Condition applies to a URL
// part's value.
type Operator int

const (
	Equals Operator = iota
	Contains
	StartsWith
	EndsWith
)

func (o Operator) String() string {
	switch o {
	case Equals:
		return "equals"
	case Contains:
		return "contains"
	case StartsWith:
		return "starts_with"
	case EndsWith:
		return "ends_with"
	default:
		return "unknown"
	}
}

// UrlPart identifies which decomposed part of a URL a Condition targets.
type UrlPart int

const (
	Host UrlPart = iota
	Path
	File
	Query
)

// PartCount is the number of UrlPart variants, used for flat array
// indexing in the rule index.
const PartCount = 4

// Ordinal returns the 0-3 index of this part, used to index fixed-size
// per-part arrays.
func (p UrlPart) Ordinal() int {
	return int(p)
}

func (p UrlPart) String() string {
	switch p {
	case Host:
		return "host"
	case Path:
		return "path"
	case File:
		return "file"
	case Query:
		return "query"
	default:
		return "unknown"
	}
}

// AllParts lists every UrlPart variant in ordinal order.
var AllParts = [PartCount]UrlPart{Host, Path, File, Query}

// Condition is a single string-matching test against one URL part.
type Condition struct {
	Part     UrlPart
	Operator Operator
	Value    string
	Negated  bool
}

// Rule is a named conjunction of conditions mapped to a result label.
// Rules are immutable once constructed and are ranked by descending
// Priority, with ties broken by their original position in the input
// list (handled by the engine's stable sort, not by Rule itself).
type Rule struct {
	Name       string
	Priority   int32
	Conditions []Condition
	Result     string
}

// ParsedUrl is the immutable decomposition of a raw URL string into the
// four parts conditions can target.
type ParsedUrl struct {
	HostValue  string
	PathValue  string
	FileValue  string
	QueryValue string
}

// NewParsedUrl builds a ParsedUrl from its already-extracted parts.
func NewParsedUrl(host, path, file, query string) ParsedUrl {
	return ParsedUrl{HostValue: host, PathValue: path, FileValue: file, QueryValue: query}
}

// Part returns the value of the given URL part.
func (u ParsedUrl) Part(part UrlPart) string {
	switch part {
	case Host:
		return u.HostValue
	case Path:
		return u.PathValue
	case File:
		return u.FileValue
	case Query:
		return u.QueryValue
	default:
		return ""
	}
}
