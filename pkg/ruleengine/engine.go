// Package ruleengine evaluates a parsed URL against a fixed set of rules
// and returns the result of the highest-priority rule whose conditions all
// hold.
package ruleengine

import (
	"sort"
	"strings"
	"sync"

	"github.com/ruleclassify/engine/pkg/rule"
	"github.com/ruleclassify/engine/pkg/ruleindex"
)

// sortedEntry bundles a rule with its precomputed dense index ID and
// negation flag, in the priority order the engine walks at evaluate time.
type sortedEntry struct {
	ruleIndex  int
	ruleID     uint32
	allNegated bool
}

// QueryScratch holds the per-caller reusable buffers Evaluate needs. A
// QueryScratch must never be shared between goroutines calling Evaluate
// concurrently; each goroutine should own one (directly, or via the
// pool-backed Evaluate convenience method).
type QueryScratch struct {
	candidates *ruleindex.CandidateResult
	reverseBuf []byte
}

// NewQueryScratch creates empty per-caller scratch state.
func NewQueryScratch() *QueryScratch {
	return &QueryScratch{candidates: ruleindex.NewCandidateResult()}
}

// RuleEngine evaluates parsed URLs against the rules it was built from.
// Its rules, sorted entries and index are not modified after New returns;
// the only other field is a sync.Pool that hands each Evaluate call its own
// QueryScratch. A single RuleEngine can therefore be shared across any
// number of goroutines, as long as EvaluateInto callers each supply their
// own QueryScratch.
type RuleEngine struct {
	rules   []rule.Rule
	entries []sortedEntry
	index   *ruleindex.RuleIndex

	scratchPool sync.Pool
}

// New builds an engine that evaluates the given rules. Rule priority ties
// are broken by original list position (stable sort), so earlier-declared
// rules win over later ones of equal priority.
func New(rules []rule.Rule) *RuleEngine {
	index := ruleindex.New(rules)

	indices := make([]int, len(rules))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return rules[indices[a]].Priority > rules[indices[b]].Priority
	})

	entries := make([]sortedEntry, len(indices))
	for i, ruleIdx := range indices {
		allNegated := true
		for _, c := range rules[ruleIdx].Conditions {
			if !c.Negated {
				allNegated = false
				break
			}
		}
		entries[i] = sortedEntry{
			ruleIndex:  ruleIdx,
			ruleID:     uint32(ruleIdx),
			allNegated: allNegated,
		}
	}

	e := &RuleEngine{rules: rules, entries: entries, index: index}
	e.scratchPool.New = func() any { return NewQueryScratch() }
	return e
}

// Evaluate evaluates url against all rules using an internally pooled
// QueryScratch and returns the result of the highest-priority matching
// rule. ok is false if no rule matched.
func (e *RuleEngine) Evaluate(url rule.ParsedUrl) (result string, ok bool) {
	scratch := e.scratchPool.Get().(*QueryScratch)
	defer e.scratchPool.Put(scratch)
	return e.EvaluateInto(url, scratch)
}

// EvaluateInto evaluates url using caller-supplied scratch state, avoiding
// the pool lookup on hot paths that already manage per-worker scratch
// explicitly.
func (e *RuleEngine) EvaluateInto(url rule.ParsedUrl, scratch *QueryScratch) (result string, ok bool) {
	e.index.QueryCandidatesInto(url, scratch.candidates, &scratch.reverseBuf)

	nonNegated := e.index.NonNegatedCounts()

	for _, entry := range e.entries {
		if !scratch.candidates.IsCandidate(entry.ruleID) && !entry.allNegated {
			continue
		}
		r := &e.rules[entry.ruleIndex]
		if scratch.candidates.AllSatisfied(entry.ruleID, nonNegated) && noNegatedConditionsMatch(r, url) {
			return r.Result, true
		}
	}
	return "", false
}

func noNegatedConditionsMatch(r *rule.Rule, url rule.ParsedUrl) bool {
	for _, cond := range r.Conditions {
		if cond.Negated && matchesDirect(cond, url) {
			return false
		}
	}
	return true
}

func matchesDirect(cond rule.Condition, url rule.ParsedUrl) bool {
	value := url.Part(cond.Part)
	switch cond.Operator {
	case rule.Equals:
		return value == cond.Value
	case rule.Contains:
		return strings.Contains(value, cond.Value)
	case rule.StartsWith:
		return strings.HasPrefix(value, cond.Value)
	case rule.EndsWith:
		return strings.HasSuffix(value, cond.Value)
	default:
		return false
	}
}
