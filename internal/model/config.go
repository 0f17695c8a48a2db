package model

import (
	"errors"
	"fmt"
	"time"
)

// Config holds everything a single run needs. It is supplied once at run
// start and read-only afterwards; nothing in it requires synchronization.
type Config struct {
	Timeout    time.Duration // bounds one probe, connect + request
	MaxRetries int           // extra fetch attempts per source, >= 0
	RetryDelay time.Duration // fixed delay between fetch attempts
	MaxWorkers int           // concurrent probe workers, >= 1

	TestURL   string // liveness target every probe requests through the proxy
	UserAgent string // empty means a random one is picked per request
	Detailed  bool   // measure latency and run anonymity/geo enrichment

	Sources map[ProxyType]string // per-type list URL

	// Enrichment endpoints, only used when Detailed is set.
	EchoURL   string // IP/header echo service reached through the proxy
	GeoAPIURL string // HTTP geo lookup, %s is replaced with the IP
	GeoDBPath string // optional local MMDB; takes precedence over GeoAPIURL

	// Output/ambient knobs consumed by cmd, not by the core.
	OutputDir    string
	OutputFormat string // txt | csv | json
	HistoryFile  string
	Verbose      bool
}

// Defaults mirrored from the public list-checker this tool grew out of.
const (
	DefaultTestURL   = "http://www.google.com"
	DefaultEchoURL   = "https://httpbin.org/get"
	DefaultGeoAPIURL = "http://ip-api.com/json/%s"
)

// Validate reports configuration errors that must stop a run before the
// scheduler starts. These are the only fatal conditions; everything past
// this point degrades per endpoint or per source instead.
func (c Config) Validate() error {
	if len(c.Sources) == 0 {
		return errors.New("no proxy sources configured")
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max workers must be >= 1, got %d", c.MaxWorkers)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.TestURL == "" {
		return errors.New("test URL must not be empty")
	}
	return nil
}
