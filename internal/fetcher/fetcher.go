package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
	"github.com/dennis-web-tech-hub/proxy-checker/internal/parser"
)

// FetchError reports a source that stayed unreachable after all retries.
// A failed source yields zero endpoints for its type; it never aborts
// the rest of the run.
type FetchError struct {
	Source   string
	Attempts int
	Err      error // last cause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.Source, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher downloads raw proxy lists with a fixed-delay retry policy.
type Fetcher struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger
}

// New builds a Fetcher from the run configuration. Retries are the only
// place the retry knobs apply; individual probes fail fast.
func New(cfg model.Config, log *slog.Logger) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: 30 * time.Second},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		log:        log,
	}
}

// Fetch performs an HTTP GET against sourceURL and returns the body text.
// Transport errors and non-2xx statuses are retried up to maxRetries extra
// times with a fixed retryDelay in between. Exhaustion returns *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) (string, error) {
	attempts := f.maxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := f.fetchOnce(ctx, sourceURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		f.log.Debug("source fetch attempt failed",
			"source", sourceURL,
			"attempt", attempt,
			"err", err,
		)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", &FetchError{Source: sourceURL, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(f.retryDelay):
		}
	}

	return "", &FetchError{Source: sourceURL, Attempts: attempts, Err: lastErr}
}

func (f *Fetcher) fetchOnce(ctx context.Context, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchAll downloads and parses every configured source. A source that
// fails is logged and contributes zero endpoints; the remaining types are
// unaffected.
func (f *Fetcher) FetchAll(ctx context.Context, sources map[model.ProxyType]string) []model.Endpoint {
	var out []model.Endpoint
	for _, typ := range model.AllProxyTypes {
		src, ok := sources[typ]
		if !ok {
			continue
		}

		raw, err := f.Fetch(ctx, src)
		if err != nil {
			f.log.Warn("source unreachable, skipping type",
				"type", typ,
				"source", src,
				"err", err,
			)
			continue
		}

		eps := parser.Parse(raw, typ)
		f.log.Info("source fetched",
			"type", typ,
			"source", src,
			"endpoints", len(eps),
		)
		out = append(out, eps...)
	}
	return out
}
