// Command ruleclassify evaluates a file of URLs against a rule set and
// prints each URL's matching result.
//
// Usage: ruleclassify [flags] <rules.json> <urls.txt>
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ruleclassify/engine/internal/batch"
	"github.com/ruleclassify/engine/internal/common/compressio"
	"github.com/ruleclassify/engine/internal/common/logger"
	"github.com/ruleclassify/engine/internal/common/metricsserver"
	"github.com/ruleclassify/engine/internal/common/requestid"
	"github.com/ruleclassify/engine/internal/datagen"
	"github.com/ruleclassify/engine/internal/resultcache"
	"github.com/ruleclassify/engine/internal/ruleconfig"
	"github.com/ruleclassify/engine/internal/rulemetrics"
	"github.com/ruleclassify/engine/internal/sysstats"
	"github.com/ruleclassify/engine/pkg/rule"
	"github.com/ruleclassify/engine/pkg/ruleengine"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML run configuration")
	workers := flag.Int("workers", 0, "number of concurrent evaluation workers (default: number of CPUs)")
	metricsListen := flag.String("metrics-listen", "", "address to serve Prometheus metrics on (overrides config)")
	cacheRedisAddr := flag.String("cache-redis-addr", "", "Redis address for result caching (overrides config, disabled if empty)")
	logFile := flag.String("log-file", "", "path to a log file (in addition to console logging)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	sysstatsInterval := flag.Duration("sysstats-interval", 0, "if set, logs periodic CPU/memory samples at this interval for the duration of the batch run")

	genRules := flag.Int("gen-rules", 0, "generate N synthetic rules to -out-rules instead of evaluating")
	genURLs := flag.Int("gen-urls", 0, "generate N synthetic URLs to -out-urls instead of evaluating")
	genSeed := flag.Int64("gen-seed", 1, "seed for synthetic data generation")
	outRules := flag.String("out-rules", "", "output path for -gen-rules")
	outURLs := flag.String("out-urls", "", "output path for -gen-urls")

	flag.Parse()

	if *genRules > 0 || *genURLs > 0 {
		if err := runGenerate(*genRules, *genURLs, *genSeed, *outRules, *outURLs); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: ruleclassify [flags] <rules.json> <urls.txt>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	rulesPath := flag.Arg(0)
	urlsPath := flag.Arg(1)

	startupLog, err := logger.NewDefaultLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating startup logger:", err)
		os.Exit(1)
	}

	cfg := ruleconfig.Default()
	if *configPath != "" {
		loaded, err := ruleconfig.Load(*configPath)
		if err != nil {
			startupLog.Error("failed to load run configuration", zap.String("path", *configPath), zap.Error(err))
			os.Exit(1)
		}
		cfg = loaded
	}
	applyFlagOverrides(&cfg, *workers, *metricsListen, *cacheRedisAddr, *logFile, *logLevel)

	log, err := logger.NewLoggerWithStartupOverride(cfg.Log)
	if err != nil {
		startupLog.Error("failed to create logger", zap.Error(err))
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, rulesPath, urlsPath, *sysstatsInterval, log); err != nil {
		log.EnsureInfoLevelForShutdown()
		log.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
	log.EnsureInfoLevelForShutdown()
	log.Info("classification run complete")
}

func applyFlagOverrides(cfg *ruleconfig.RunConfig, workers int, metricsListen, cacheRedisAddr, logFile, logLevel string) {
	if workers > 0 {
		cfg.Workers = workers
	}
	if metricsListen != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Listen = metricsListen
		if cfg.Metrics.Path == "" {
			cfg.Metrics.Path = "/metrics"
		}
	}
	if cacheRedisAddr != "" {
		cfg.Redis.Addr = cacheRedisAddr
	}
	if logFile != "" {
		cfg.Log.File.Enabled = true
		cfg.Log.File.Path = logFile
		if cfg.Log.File.Format == "" {
			cfg.Log.File.Format = ruleconfig.LogFormatJSON
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
}

func run(cfg ruleconfig.RunConfig, rulesPath, urlsPath string, sysstatsInterval time.Duration, dlog *logger.DynamicLogger) error {
	log := dlog.Logger
	runID := requestid.GenerateRequestID(filepath.Base(rulesPath))
	log = log.With(zap.String("run_id", runID))
	log.Info("starting classification run", zap.String("rules_path", rulesPath), zap.String("urls_path", urlsPath))

	rulesData, err := readMaybeCompressed(rulesPath)
	if err != nil {
		return fmt.Errorf("reading rules file: %w", err)
	}
	rules, err := rule.LoadFromBytes(rulesData)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	log.Info("loaded rules", zap.Int("count", len(rules)), zap.String("path", rulesPath))

	engine := ruleengine.New(rules)

	var metricsCollector *rulemetrics.Collector
	if cfg.Metrics.Enabled {
		metricsCollector = rulemetrics.New("ruleclassify")
		if _, err := metricsserver.StartMetricsServer(true, cfg.Metrics.Listen, cfg.Metrics.Path, metricsCollector, runID, log); err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
	}

	var cache *resultcache.Cache
	if cfg.Redis.Addr != "" {
		generation := resultcache.NewGeneration(rulesData)
		cache, err = resultcache.New(cfg.Redis, generation, time.Hour, log)
		if err != nil {
			return fmt.Errorf("connecting to result cache: %w", err)
		}
		defer cache.Close()
	}

	urlsData, err := readMaybeCompressed(urlsPath)
	if err != nil {
		return fmt.Errorf("opening urls file: %w", err)
	}

	// Startup (config load, engine build, cache dial) is complete; drop the
	// INFO-level override and run the batch at the operator's configured
	// level.
	dlog.SwitchToConfiguredLevel()

	var statsWorker *sysstats.Worker
	if sysstatsInterval > 0 {
		statsWorker = sysstats.New(sysstatsInterval, log)
		statsWorker.Start()
		defer statsWorker.Shutdown()
	}

	processor := batch.New(engine, cfg.Workers)
	if cache != nil {
		processor.WithCache(cache)
	}
	results, err := processor.ProcessReader(bytes.NewReader(urlsData))
	if err != nil {
		return fmt.Errorf("processing urls: %w", err)
	}

	if metricsCollector != nil {
		metricsCollector.RecordBatchSize(len(results))
	}

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()
	for _, r := range results {
		fmt.Fprintf(writer, "%s -> %s\n", r.URL, r.Result)
		recordOutcome(metricsCollector, r.Result)
	}

	return nil
}

// readMaybeCompressed reads path and transparently Snappy-decompresses it
// when the name carries compressio's extension.
func readMaybeCompressed(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if compressio.IsCompressed(path) {
		return compressio.Decompress(data)
	}
	return data, nil
}

func recordOutcome(metricsCollector *rulemetrics.Collector, result string) {
	if metricsCollector == nil {
		return
	}
	switch result {
	case batch.NoMatchLabel:
		metricsCollector.RecordEvaluation(rulemetrics.OutcomeNoMatch, 0)
	case batch.InvalidURLLabel:
		metricsCollector.RecordEvaluation(rulemetrics.OutcomeInvalidURL, 0)
	default:
		metricsCollector.RecordEvaluation(rulemetrics.OutcomeMatched, 0)
	}
}

func runGenerate(ruleCount, urlCount int, seed int64, outRules, outURLs string) error {
	gen := datagen.New(seed)

	if ruleCount > 0 {
		if outRules == "" {
			return fmt.Errorf("-out-rules is required with -gen-rules")
		}
		rules := gen.GenerateRules(ruleCount)
		if err := writeRulesJSON(outRules, rules); err != nil {
			return err
		}
	}

	if urlCount > 0 {
		if outURLs == "" {
			return fmt.Errorf("-out-urls is required with -gen-urls")
		}
		urls := gen.GenerateURLs(urlCount)
		if err := writeLines(outURLs, urls); err != nil {
			return err
		}
	}

	return nil
}

func writeRulesJSON(path string, rules []rule.Rule) error {
	var buf bytes.Buffer

	fmt.Fprint(&buf, "[")
	for i, r := range rules {
		if i > 0 {
			fmt.Fprint(&buf, ",")
		}
		fmt.Fprint(&buf, "\n  {\n")
		fmt.Fprintf(&buf, "    \"name\": %s,\n", jsonString(r.Name))
		fmt.Fprintf(&buf, "    \"priority\": %d,\n", r.Priority)
		fmt.Fprint(&buf, "    \"conditions\": [")
		for j, c := range r.Conditions {
			if j > 0 {
				fmt.Fprint(&buf, ",")
			}
			fmt.Fprintf(&buf, "\n      {\"part\": %s, \"operator\": %s, \"value\": %s, \"negated\": %s}",
				jsonString(c.Part.String()), jsonString(c.Operator.String()), jsonString(c.Value), strconv.FormatBool(c.Negated))
		}
		fmt.Fprint(&buf, "\n    ],\n")
		fmt.Fprintf(&buf, "    \"result\": %s\n  }", jsonString(r.Result))
	}
	fmt.Fprint(&buf, "\n]\n")
	return writeMaybeCompressed(path, buf.Bytes())
}

func jsonString(s string) string {
	return strconv.Quote(s)
}

func writeLines(path string, lines []string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		fmt.Fprintln(&buf, line)
	}
	return writeMaybeCompressed(path, buf.Bytes())
}

// writeMaybeCompressed writes content to path, Snappy-compressing it first
// when the name carries compressio's extension.
func writeMaybeCompressed(path string, content []byte) error {
	if compressio.IsCompressed(path) {
		content = compressio.Compress(content)
	}
	return os.WriteFile(path, content, 0o644)
}
