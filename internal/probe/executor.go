package probe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/corpix/uarand"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

// Executor performs the connectivity test for a single endpoint. It is
// stateless apart from configuration and safe for use from many workers
// at once; no shared state is touched beyond the network call.
type Executor struct {
	cfg model.Config
	log *slog.Logger
}

// NewExecutor builds a probe executor for one run.
func NewExecutor(cfg model.Config, log *slog.Logger) *Executor {
	return &Executor{cfg: cfg, log: log}
}

// Probe runs one connectivity test. The configured timeout bounds the whole
// attempt (connect + request); exceeding it is an ordinary Failure with a
// timeout reason, never a retry at this layer. Success requires a response
// with status in the 2xx-3xx range received within the timeout.
func (x *Executor) Probe(ctx context.Context, ep model.Endpoint) model.ProbeResult {
	out := model.ProbeResult{
		Endpoint: ep,
		Outcome:  model.OutcomeFailure,
	}

	strat, err := StrategyFor(ep.Type)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	client, err := strat.Client(ep, x.cfg.Timeout)
	if err != nil {
		out.Error = "client_build_error: " + err.Error()
		return out
	}

	probeCtx, cancel := context.WithTimeout(ctx, x.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, x.cfg.TestURL, nil)
	if err != nil {
		out.Error = "bad_request: " + err.Error()
		return out
	}
	req.Header.Set("User-Agent", x.userAgent())

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || probeCtx.Err() != nil {
			out.Error = "timeout"
		} else {
			out.Error = err.Error()
		}
		return out
	}
	defer resp.Body.Close()

	out.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		out.Error = "bad_status"
		return out
	}

	out.Outcome = model.OutcomeSuccess
	if x.cfg.Detailed {
		out.Latency = time.Since(start)
	}

	x.log.Debug("probe succeeded",
		"endpoint", ep.Addr(),
		"type", ep.Type,
		"status", resp.StatusCode,
	)
	return out
}

func (x *Executor) userAgent() string {
	if x.cfg.UserAgent != "" {
		return x.cfg.UserAgent
	}
	return uarand.GetRandom()
}
