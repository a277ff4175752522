// Package datagen synthesizes rule sets and URL corpora for load testing
// and benchmarking the rule engine, using the same deterministic,
// seeded-random vocabulary approach as the reference implementation's
// benchmark fixtures.
package datagen

import (
	"fmt"
	"math/rand"

	"github.com/ruleclassify/engine/pkg/rule"
)

// Generator produces rule sets and URL corpora from a seeded RNG, so the
// same seed always yields the same output.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// randomPriority mirrors the skewed distribution of the reference
// generator: most rules are low priority, a few are high.
func (g *Generator) randomPriority() int32 {
	r := g.rng.Float64()
	switch {
	case r < 0.60:
		return int32(1 + g.rng.Intn(3))
	case r < 0.90:
		return int32(4 + g.rng.Intn(4))
	default:
		return int32(8 + g.rng.Intn(3))
	}
}

func (g *Generator) makeRule(name string, part rule.UrlPart, op rule.Operator, value string) rule.Rule {
	return rule.Rule{
		Name:       name,
		Priority:   g.randomPriority(),
		Conditions: []rule.Condition{{Part: part, Operator: op, Value: value}},
		Result:     name + "-result",
	}
}

var allParts = []rule.UrlPart{rule.Host, rule.Path, rule.File, rule.Query}
var allOperators = []rule.Operator{rule.Equals, rule.Contains, rule.StartsWith, rule.EndsWith}

func (g *Generator) randomCondition() rule.Condition {
	part := allParts[g.rng.Intn(len(allParts))]
	op := allOperators[g.rng.Intn(len(allOperators))]

	var value string
	switch part {
	case rule.Host:
		value = g.randomHostValue(op)
	case rule.Path:
		value = g.randomPathValue(op)
	case rule.File:
		value = g.randomFileValue(op)
	case rule.Query:
		value = g.pick(queryParams)
	}
	return rule.Condition{Part: part, Operator: op, Value: value}
}

func (g *Generator) randomHostValue(op rule.Operator) string {
	switch op {
	case rule.Equals:
		return g.pick(hostPrefixes) + g.pick(domains)
	case rule.Contains:
		return g.pick(brandKeywords)
	case rule.StartsWith:
		return g.pick(hostPrefixes)
	case rule.EndsWith:
		return g.pick(tlds)
	default:
		return ""
	}
}

func (g *Generator) randomPathValue(op rule.Operator) string {
	switch op {
	case rule.Equals:
		return g.pick(pathDirs) + "/" + g.pick(pathKeywords)
	case rule.Contains:
		return g.pick(pathKeywords)
	case rule.StartsWith:
		return g.pick(pathDirs)
	case rule.EndsWith:
		return "/" + g.pick(pathKeywords)
	default:
		return ""
	}
}

func (g *Generator) randomFileValue(op rule.Operator) string {
	switch op {
	case rule.Equals:
		return g.pick(fileNames) + g.pick(fileExtensions)
	case rule.Contains, rule.StartsWith:
		return g.pick(fileNames)
	case rule.EndsWith:
		return g.pick(fileExtensions)
	default:
		return ""
	}
}

func (g *Generator) randomPath() string {
	depth := 1 + g.rng.Intn(3)
	s := ""
	for i := 0; i < depth; i++ {
		s += g.pick(pathDirs)
	}
	return s
}

func (g *Generator) randomFile() string {
	if g.rng.Float64() < 0.7 {
		return "/" + g.pick(fileNames) + g.pick(fileExtensions)
	}
	return ""
}

func (g *Generator) randomQuery() string {
	if g.rng.Float64() < 0.3 {
		return "?" + g.pick(queryParams)
	}
	return ""
}

// ruleCategory is one weighted slice of the generated rule set; weight is
// relative to the other categories, not a fraction of n.
type ruleCategory struct {
	weight int
	build  func(g *Generator, id int) rule.Rule
}

var ruleCategories = []ruleCategory{
	{weight: 5, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("domain-eq-%d", id), rule.Host, rule.Equals, g.pick(domains))
	}},
	{weight: 10, build: func(g *Generator, id int) rule.Rule {
		value := g.pick(hostPrefixes) + g.pick(domains)
		return g.makeRule(fmt.Sprintf("subdomain-eq-%d", id), rule.Host, rule.Equals, value)
	}},
	{weight: 1, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("tld-ew-%d", id), rule.Host, rule.EndsWith, g.pick(tlds))
	}},
	{weight: 10, build: func(g *Generator, id int) rule.Rule {
		keyword := g.pick(brandKeywords)
		if g.rng.Float64() < 0.5 {
			keyword += g.pick(tlds)[1:]
		}
		return g.makeRule(fmt.Sprintf("brand-ct-%d", id), rule.Host, rule.Contains, keyword)
	}},
	{weight: 10, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("host-sw-%d", id), rule.Host, rule.StartsWith, g.pick(hostPrefixes))
	}},
	{weight: 10, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("host-ew-%d", id), rule.Host, rule.EndsWith, "."+g.pick(domains))
	}},
	{weight: 2, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("file-ext-%d", id), rule.File, rule.EndsWith, g.pick(fileExtensions))
	}},
	{weight: 2, build: func(g *Generator, id int) rule.Rule {
		name := g.pick(fileNames) + g.pick(fileExtensions)
		return g.makeRule(fmt.Sprintf("file-eq-%d", id), rule.File, rule.Equals, name)
	}},
	{weight: 1, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("file-sw-%d", id), rule.File, rule.StartsWith, g.pick(fileNames))
	}},
	{weight: 1, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("file-ct-%d", id), rule.File, rule.Contains, g.pick(fileNames))
	}},
	{weight: 1, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("query-ct-%d", id), rule.Query, rule.Contains, g.pick(queryParams))
	}},
	{weight: 1, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("query-sw-%d", id), rule.Query, rule.StartsWith, g.pick(queryParams))
	}},
	{weight: 1, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("query-ew-%d", id), rule.Query, rule.EndsWith, g.pick(queryParams))
	}},
	{weight: 1, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("query-eq-%d", id), rule.Query, rule.Equals, g.pick(queryParams))
	}},
	{weight: 1, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("path-sw-%d", id), rule.Path, rule.StartsWith, g.pick(pathDirs))
	}},
	{weight: 1, build: func(g *Generator, id int) rule.Rule {
		return g.makeRule(fmt.Sprintf("path-ct-%d", id), rule.Path, rule.Contains, g.pick(pathKeywords))
	}},
	{weight: 4, build: func(g *Generator, id int) rule.Rule {
		value := g.pick(pathDirs) + "/" + g.pick(pathKeywords)
		return g.makeRule(fmt.Sprintf("path-eq-%d", id), rule.Path, rule.Equals, value)
	}},
	{weight: 4, build: func(g *Generator, id int) rule.Rule {
		value := "/" + g.pick(pathKeywords) + g.pick(fileExtensions)
		return g.makeRule(fmt.Sprintf("path-ew-%d", id), rule.Path, rule.EndsWith, value)
	}},
	{weight: 10, build: func(g *Generator, id int) rule.Rule {
		condCount := 2 + g.rng.Intn(2)
		conditions := make([]rule.Condition, condCount)
		for i := range conditions {
			conditions[i] = g.randomCondition()
		}
		return rule.Rule{
			Name:       fmt.Sprintf("compound-%d", id),
			Priority:   g.randomPriority(),
			Conditions: conditions,
			Result:     "compound-match",
		}
	}},
	{weight: 10, build: func(g *Generator, id int) rule.Rule {
		cond := g.randomCondition()
		cond.Negated = true
		return rule.Rule{
			Name:       fmt.Sprintf("negated-%d", id),
			Priority:   g.randomPriority(),
			Conditions: []rule.Condition{cond},
			Result:     "negated-match",
		}
	}},
}

// GenerateRules produces n synthetic rules spread across the same mix of
// categories (exact match, substring, prefix, suffix, compound,
// negated...) as the reference benchmark fixtures, scaled to n.
func (g *Generator) GenerateRules(n int) []rule.Rule {
	totalWeight := 0
	for _, c := range ruleCategories {
		totalWeight += c.weight
	}

	rules := make([]rule.Rule, 0, n)
	id := 0
	for _, c := range ruleCategories {
		count := n * c.weight / totalWeight
		for i := 0; i < count && len(rules) < n; i++ {
			rules = append(rules, c.build(g, id))
			id++
		}
	}
	for len(rules) < n {
		c := ruleCategories[g.rng.Intn(len(ruleCategories))]
		rules = append(rules, c.build(g, id))
		id++
	}
	return rules
}

type urlCategory struct {
	weight int
	build  func(g *Generator, index int) string
}

var urlCategories = []urlCategory{
	{weight: 40, build: func(g *Generator, _ int) string {
		return fmt.Sprintf("https://%s%s%s%s", g.pick(domains), g.randomPath(), g.randomFile(), g.randomQuery())
	}},
	{weight: 20, build: func(g *Generator, _ int) string {
		host := g.pick(hostPrefixes) + g.pick(domains)
		return fmt.Sprintf("https://%s%s%s%s", host, g.randomPath(), g.randomFile(), g.randomQuery())
	}},
	{weight: 20, build: func(g *Generator, index int) string {
		return fmt.Sprintf("https://random%d.example.test%s%s", index, g.randomPath(), g.randomFile())
	}},
	{weight: 10, build: func(g *Generator, _ int) string {
		return fmt.Sprintf("https://%s%s%s?%s&%s",
			g.pick(domains), g.randomPath(), g.randomFile(), g.pick(queryParams), g.pick(queryParams))
	}},
	{weight: 10, build: func(g *Generator, _ int) string {
		return fmt.Sprintf("https://%s%s/%s%s", g.pick(domains), g.pick(pathDirs), g.pick(pathKeywords), g.randomFile())
	}},
}

// GenerateURLs produces n synthetic URLs spread across the same mix of
// categories (known hosts, prefixed hosts, non-matching hosts, query- and
// path-oriented shapes) as the reference benchmark fixtures, then
// shuffles the result so category order isn't predictable.
func (g *Generator) GenerateURLs(n int) []string {
	totalWeight := 0
	for _, c := range urlCategories {
		totalWeight += c.weight
	}

	urls := make([]string, 0, n)
	index := 0
	for _, c := range urlCategories {
		count := n * c.weight / totalWeight
		for i := 0; i < count && len(urls) < n; i++ {
			urls = append(urls, c.build(g, index))
			index++
		}
	}
	for len(urls) < n {
		c := urlCategories[g.rng.Intn(len(urlCategories))]
		urls = append(urls, c.build(g, index))
		index++
	}

	g.rng.Shuffle(len(urls), func(i, j int) {
		urls[i], urls[j] = urls[j], urls[i]
	})
	return urls
}
