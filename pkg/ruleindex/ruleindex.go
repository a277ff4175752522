// Package ruleindex accelerates rule matching by indexing every
// non-negated condition across all rules by (UrlPart, Operator), so that
// evaluating a URL touches only the rules that could plausibly match
// instead of walking every rule's conditions.
package ruleindex

import (
	"github.com/ruleclassify/engine/pkg/ahocorasick"
	"github.com/ruleclassify/engine/pkg/rule"
	"github.com/ruleclassify/engine/pkg/trie"
)

// RuleIndex indexes the non-negated conditions of a fixed rule set. It is
// immutable once built and safe for concurrent read-only use by any number
// of goroutines, each with its own CandidateResult and reverse buffer.
type RuleIndex struct {
	equalsIndexes     [rule.PartCount]map[string][]uint32
	startsWithIndexes [rule.PartCount]*trie.Trie[uint32]
	endsWithIndexes   [rule.PartCount]*trie.Trie[uint32]
	containsIndexes   [rule.PartCount]*ahocorasick.AhoCorasick[uint32]

	ruleCount        int
	nonNegatedCounts []uint32
	hasEquals        [rule.PartCount]bool
	hasStartsWith    [rule.PartCount]bool
	hasEndsWith      [rule.PartCount]bool
	hasContains      [rule.PartCount]bool
}

// New builds an index from rules. Rule identity is the rule's position in
// the input slice; that position doubles as the dense rule ID used
// throughout the index and by the engine.
func New(rules []rule.Rule) *RuleIndex {
	ruleCount := len(rules)
	nonNegatedCounts := make([]uint32, ruleCount)

	idx := &RuleIndex{ruleCount: ruleCount, nonNegatedCounts: nonNegatedCounts}

	var equalsBuild [rule.PartCount]map[string][]uint32
	for p := range equalsBuild {
		equalsBuild[p] = make(map[string][]uint32)
	}
	for p := range idx.startsWithIndexes {
		idx.startsWithIndexes[p] = trie.New[uint32]()
		idx.endsWithIndexes[p] = trie.New[uint32]()
		idx.containsIndexes[p] = ahocorasick.New[uint32]()
	}

	for i, r := range rules {
		id := uint32(i)
		for _, cond := range r.Conditions {
			if cond.Negated {
				continue
			}
			nonNegatedCounts[i]++
			p := cond.Part.Ordinal()
			switch cond.Operator {
			case rule.Equals:
				equalsBuild[p][cond.Value] = append(equalsBuild[p][cond.Value], id)
			case rule.StartsWith:
				idx.startsWithIndexes[p].InsertBytes([]byte(cond.Value), id)
			case rule.EndsWith:
				idx.endsWithIndexes[p].InsertBytes(reverseBytes([]byte(cond.Value)), id)
			case rule.Contains:
				idx.containsIndexes[p].Insert(cond.Value, id)
			}
		}
	}

	for p := range idx.containsIndexes {
		idx.containsIndexes[p].Build()
	}

	for p := 0; p < rule.PartCount; p++ {
		idx.equalsIndexes[p] = equalsBuild[p]
		idx.hasEquals[p] = len(equalsBuild[p]) > 0
		idx.hasStartsWith[p] = !idx.startsWithIndexes[p].IsEmpty()
		idx.hasEndsWith[p] = !idx.endsWithIndexes[p].IsEmpty()
		idx.hasContains[p] = !idx.containsIndexes[p].IsEmpty()
	}

	return idx
}

// RuleCount returns the number of rules in the index.
func (idx *RuleIndex) RuleCount() int {
	return idx.ruleCount
}

// NonNegatedCounts returns, per dense rule ID, the fixed number of
// non-negated conditions that rule has.
func (idx *RuleIndex) NonNegatedCounts() []uint32 {
	return idx.nonNegatedCounts
}

// QueryCandidates queries the index for all non-negated conditions that
// match url, allocating fresh scratch state. Prefer QueryCandidatesInto on
// any hot path that evaluates many URLs.
func (idx *RuleIndex) QueryCandidates(url rule.ParsedUrl) *CandidateResult {
	candidates := NewCandidateResult()
	var reverseBuf []byte
	idx.QueryCandidatesInto(url, candidates, &reverseBuf)
	return candidates
}

// QueryCandidatesInto queries the index into caller-owned scratch state,
// avoiding per-query allocation. candidates and reverseBuf may be reused
// across calls from the same goroutine; they must never be shared between
// goroutines evaluating concurrently.
func (idx *RuleIndex) QueryCandidatesInto(url rule.ParsedUrl, candidates *CandidateResult, reverseBuf *[]byte) {
	candidates.EnsureCapacityAndReset(idx.ruleCount)

	for _, part := range rule.AllParts {
		p := part.Ordinal()
		value := url.Part(part)

		if idx.hasEquals[p] {
			for _, id := range idx.equalsIndexes[p][value] {
				candidates.increment(id)
			}
		}

		if idx.hasStartsWith[p] {
			idx.startsWithIndexes[p].FindPrefixesOfBytes([]byte(value), func(id uint32) {
				candidates.increment(id)
			})
		}

		if idx.hasEndsWith[p] {
			*reverseBuf = reverseBytesInto((*reverseBuf)[:0], value)
			idx.endsWithIndexes[p].FindPrefixesOfBytes(*reverseBuf, func(id uint32) {
				candidates.increment(id)
			})
		}

		if idx.hasContains[p] {
			idx.containsIndexes[p].Search(value, func(id uint32) {
				candidates.increment(id)
			})
		}
	}
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// reverseBytesInto appends the byte-reversal of s onto dst (which must
// already be truncated to length 0 by the caller) and returns the result.
func reverseBytesInto(dst []byte, s string) []byte {
	for i := len(s) - 1; i >= 0; i-- {
		dst = append(dst, s[i])
	}
	return dst
}
