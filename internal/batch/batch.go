// Package batch evaluates many URL lines against a rule engine across a
// fixed pool of worker goroutines, preserving input order in the output
// regardless of which worker finishes first.
package batch

import (
	"bufio"
	"context"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/ruleclassify/engine/internal/urlparse"
	"github.com/ruleclassify/engine/pkg/ruleengine"
)

// ResultCache memoizes evaluate() outcomes so a processor can skip
// re-running the engine for a URL it has already seen. Implemented by
// internal/resultcache.Cache.
type ResultCache interface {
	Get(ctx context.Context, url string) (result string, ok bool, err error)
	Set(ctx context.Context, url, result string, matched bool) error
}

const (
	// NoMatchLabel is the result recorded when a URL parses but matches no
	// rule.
	NoMatchLabel = "NO_MATCH"
	// InvalidURLLabel is the result recorded when a URL line fails to parse.
	InvalidURLLabel = "INVALID_URL"
)

// UrlResult is the outcome of evaluating a single URL line.
type UrlResult struct {
	URL    string
	Result string
}

// Processor evaluates batches of URL lines against a RuleEngine using a
// fixed pool of worker goroutines.
type Processor struct {
	engine  *ruleengine.RuleEngine
	workers int
	cache   ResultCache
}

// New creates a batch processor backed by engine. workers is the number
// of goroutines used to evaluate lines concurrently; a value <= 0 defaults
// to runtime.NumCPU().
func New(engine *ruleengine.RuleEngine, workers int) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Processor{engine: engine, workers: workers}
}

// WithCache attaches a ResultCache that evaluateLine consults before
// running the engine and populates after a cache miss. Passing nil
// disables caching.
func (p *Processor) WithCache(cache ResultCache) *Processor {
	p.cache = cache
	return p
}

// ProcessReader reads newline-delimited URLs from r and evaluates each
// against the engine. Blank lines are skipped. The returned slice
// preserves the order lines appeared in the input.
func (p *Processor) ProcessReader(r io.Reader) ([]UrlResult, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.ProcessLines(lines), nil
}

// ProcessLines evaluates lines against the engine in parallel across the
// processor's worker pool, returning results in the same order as lines.
func (p *Processor) ProcessLines(lines []string) []UrlResult {
	results := make([]UrlResult, len(lines))

	jobs := make(chan int)
	var wg sync.WaitGroup
	scratchPool := sync.Pool{New: func() any { return ruleengine.NewQueryScratch() }}

	workerCount := p.workers
	if workerCount > len(lines) {
		workerCount = len(lines)
	}
	if workerCount <= 0 {
		return results
	}

	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scratch := scratchPool.Get().(*ruleengine.QueryScratch)
			defer scratchPool.Put(scratch)

			for idx := range jobs {
				results[idx] = p.evaluateLine(lines[idx], scratch)
			}
		}()
	}

	for idx := range lines {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}

func (p *Processor) evaluateLine(line string, scratch *ruleengine.QueryScratch) UrlResult {
	parsed, err := urlparse.Parse(line)
	if err != nil {
		return UrlResult{URL: line, Result: InvalidURLLabel}
	}

	if p.cache != nil {
		if cached, ok, err := p.cache.Get(context.Background(), line); err == nil && ok {
			if cached == "" {
				return UrlResult{URL: line, Result: NoMatchLabel}
			}
			return UrlResult{URL: line, Result: cached}
		}
	}

	result, ok := p.engine.EvaluateInto(parsed, scratch)

	if p.cache != nil {
		p.cache.Set(context.Background(), line, result, ok)
	}

	if !ok {
		return UrlResult{URL: line, Result: NoMatchLabel}
	}
	return UrlResult{URL: line, Result: result}
}
