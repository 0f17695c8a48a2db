package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/analytics"
	"github.com/dennis-web-tech-hub/proxy-checker/internal/enrich"
	"github.com/dennis-web-tech-hub/proxy-checker/internal/fetcher"
	"github.com/dennis-web-tech-hub/proxy-checker/internal/logging"
	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
	"github.com/dennis-web-tech-hub/proxy-checker/internal/output"
	"github.com/dennis-web-tech-hub/proxy-checker/internal/probe"
	"github.com/dennis-web-tech-hub/proxy-checker/internal/scheduler"
)

func main() {
	// Optional .env overlay for flag defaults; missing file is fine.
	_ = godotenv.Load()

	var cfg model.Config
	var timeoutSec, retryDelaySec int
	var typeFilter string
	var srcHTTP, srcSOCKS4, srcSOCKS5 string

	flag.IntVar(&timeoutSec, "timeout", 5, "timeout in seconds for each proxy check")
	flag.IntVar(&cfg.MaxRetries, "retries", 3, "extra fetch attempts per source")
	flag.IntVar(&retryDelaySec, "retry-delay", 1, "seconds between fetch attempts")
	flag.IntVar(&cfg.MaxWorkers, "workers", 50, "number of concurrent workers")
	flag.StringVar(&cfg.TestURL, "test-url", envOr("TEST_URL", model.DefaultTestURL), "liveness target requested through every proxy")
	flag.StringVar(&cfg.UserAgent, "user-agent", "", "User-Agent for probe requests (random if empty)")
	flag.BoolVar(&cfg.Detailed, "detailed", false, "measure latency and run anonymity/geo enrichment")
	flag.StringVar(&typeFilter, "type", "", "check a single proxy type: http | socks4 | socks5")
	flag.StringVar(&srcHTTP, "source-http", envOr("SOURCE_HTTP", ""), "override http list URL")
	flag.StringVar(&srcSOCKS4, "source-socks4", envOr("SOURCE_SOCKS4", ""), "override socks4 list URL")
	flag.StringVar(&srcSOCKS5, "source-socks5", envOr("SOURCE_SOCKS5", ""), "override socks5 list URL")
	flag.StringVar(&cfg.OutputDir, "output", "results", "directory for per-type result files")
	flag.StringVar(&cfg.OutputFormat, "format", "txt", "output format: txt | csv | json")
	flag.StringVar(&cfg.HistoryFile, "history", "", "optional run-history log to append to")
	flag.StringVar(&cfg.GeoDBPath, "geo-db", envOr("GEO_DB", ""), "optional GeoIP2 City database (skips the geo API)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logs")
	flag.Parse()

	cfg.Timeout = time.Duration(timeoutSec) * time.Second
	cfg.RetryDelay = time.Duration(retryDelaySec) * time.Second
	cfg.EchoURL = envOr("ECHO_URL", model.DefaultEchoURL)
	cfg.GeoAPIURL = envOr("GEO_API_URL", model.DefaultGeoAPIURL)
	sources, err := buildSources(typeFilter, srcHTTP, srcSOCKS4, srcSOCKS5)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	cfg.Sources = sources

	log := logging.NewLogger(cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	log.Info("starting proxy-checker",
		"types", len(cfg.Sources),
		"timeout", cfg.Timeout,
		"workers", cfg.MaxWorkers,
		"detailed", cfg.Detailed,
	)

	// Ctrl-C cancels cooperatively: in-flight probes finish and are
	// recorded, the remaining queue is discarded.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := fetcher.New(cfg, log)
	endpoints := f.FetchAll(ctx, cfg.Sources)
	if len(endpoints) == 0 {
		log.Error("no endpoints fetched from any source")
		os.Exit(1)
	}
	log.Info("endpoints loaded", "count", len(endpoints))

	store := analytics.NewStore()
	sched := scheduler.New(cfg, probe.NewExecutor(cfg, log), store, log)

	if cfg.Detailed {
		sched.Enricher = enrich.New(ctx, cfg, buildResolver(cfg, log), log)
	}

	bar := progressbar.Default(int64(len(endpoints)), "checking")
	sched.OnProgress = func(p scheduler.Progress) {
		_ = bar.Set(p.Checked)
		bar.Describe(fmt.Sprintf("checking (%d working)", p.Working))
	}

	summary, err := sched.Run(ctx, endpoints)
	if err != nil {
		log.Error("run failed to start", "err", err)
		os.Exit(1)
	}
	_ = bar.Finish()

	snapshot := store.Snapshot()
	output.PrintResultsTable(os.Stdout, snapshot)
	output.PrintSummary(os.Stdout, summary)

	if err := output.WriteResults(cfg.OutputDir, cfg.OutputFormat, snapshot); err != nil {
		log.Error("failed to write results", "err", err, "dir", cfg.OutputDir)
	} else {
		log.Info("results written", "dir", cfg.OutputDir, "format", cfg.OutputFormat)
	}

	if cfg.HistoryFile != "" {
		if err := output.AppendHistory(cfg.HistoryFile, summary); err != nil {
			log.Error("failed to append history", "err", err, "path", cfg.HistoryFile)
		}
	}
}

// buildSources resolves the per-type source map from defaults, overrides
// and the optional single-type filter.
func buildSources(typeFilter, srcHTTP, srcSOCKS4, srcSOCKS5 string) (map[model.ProxyType]string, error) {
	sources := fetcher.DefaultSources()
	if srcHTTP != "" {
		sources[model.TypeHTTP] = srcHTTP
	}
	if srcSOCKS4 != "" {
		sources[model.TypeSOCKS4] = srcSOCKS4
	}
	if srcSOCKS5 != "" {
		sources[model.TypeSOCKS5] = srcSOCKS5
	}

	if typeFilter == "" {
		return sources, nil
	}
	typ, err := model.ParseProxyType(typeFilter)
	if err != nil {
		return nil, err
	}
	return map[model.ProxyType]string{typ: sources[typ]}, nil
}

// buildResolver prefers a local MMDB when configured, falling back to the
// HTTP geo API.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func buildResolver(cfg model.Config, log *slog.Logger) model.IPResolver {
	if cfg.GeoDBPath != "" {
		r, err := enrich.NewMMDBResolver(cfg.GeoDBPath)
		if err == nil {
			return r
		}
		log.Warn("geo database unavailable, using geo API", "err", err)
	}
	return enrich.NewHTTPResolver(cfg.GeoAPIURL, cfg.Timeout)
}
