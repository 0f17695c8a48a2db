package enrich

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
	"github.com/dennis-web-tech-hub/proxy-checker/internal/probe"
)

// Enricher fills in anonymity and geo fields on successful probe results.
// It is only wired into a run when detailed mode is on; every lookup
// failure downgrades a field (unknown anonymity, nil location) and never
// fails the owning result.
type Enricher struct {
	cfg      model.Config
	resolver model.IPResolver // nil disables geo lookup
	realIP   string
	log      *slog.Logger
}

// New builds an Enricher and captures the caller's real IP by asking the
// echo service directly, without any proxy in the path. A failed real-IP
// lookup is tolerated; anonymity then classifies as unknown.
func New(ctx context.Context, cfg model.Config, resolver model.IPResolver, log *slog.Logger) *Enricher {
	e := &Enricher{
		cfg:      cfg,
		resolver: resolver,
		log:      log,
	}

	client := &http.Client{Timeout: cfg.Timeout}
	echo, err := fetchEcho(ctx, client, cfg.EchoURL)
	if err != nil {
		log.Warn("could not determine real client IP", "err", err)
		return e
	}
	e.realIP = firstIPToken(echo.Origin)
	return e
}

// Enrich completes a successful ProbeResult with anonymity and location.
// The input is returned unchanged for failed probes.
func (e *Enricher) Enrich(ctx context.Context, res model.ProbeResult) model.ProbeResult {
	if !res.Working() {
		return res
	}

	res = e.classifyAnonymity(ctx, res)
	res = e.locate(res)
	return res
}

// classifyAnonymity sends a request through the proxy to the echo service
// and compares what the service saw against the real client IP.
func (e *Enricher) classifyAnonymity(ctx context.Context, res model.ProbeResult) model.ProbeResult {
	strat, err := probe.StrategyFor(res.Endpoint.Type)
	if err != nil {
		res.Anonymity = model.AnonymityUnknown
		return res
	}
	client, err := strat.Client(res.Endpoint, e.cfg.Timeout)
	if err != nil {
		res.Anonymity = model.AnonymityUnknown
		return res
	}

	echoCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	echo, err := fetchEcho(echoCtx, client, e.cfg.EchoURL)
	if err != nil {
		e.log.Debug("anonymity lookup failed",
			"endpoint", res.Endpoint.Addr(),
			"err", err,
		)
		res.Anonymity = model.AnonymityUnknown
		return res
	}

	res.ExitIP = firstIPToken(echo.Origin)
	res.Anonymity = DetermineAnonymity(AnonymityInput{
		RealIP:          e.realIP,
		ReportedIP:      res.ExitIP,
		HeadersObserved: echo.Headers,
	})
	return res
}

// locate resolves the proxy's exit IP to a location. Failures leave the
// location unset.
func (e *Enricher) locate(res model.ProbeResult) model.ProbeResult {
	if e.resolver == nil {
		return res
	}

	ip := res.ExitIP
	if ip == "" {
		ip = res.Endpoint.Host
	}

	info, err := e.resolver.Lookup(ip)
	if err != nil {
		e.log.Debug("geo lookup failed",
			"endpoint", res.Endpoint.Addr(),
			"ip", ip,
			"err", err,
		)
		return res
	}
	res.Location = &info
	return res
}

// echoResponse matches the fields we care about from an httpbin-style
// echo endpoint.
type echoResponse struct {
	Origin  string            `json:"origin"`
	Headers map[string]string `json:"headers"`
}

func fetchEcho(ctx context.Context, client *http.Client, echoURL string) (echoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, echoURL, nil)
	if err != nil {
		return echoResponse{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return echoResponse{}, err
	}
	defer resp.Body.Close()

	var parsed echoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return echoResponse{}, err
	}
	return parsed, nil
}

// interface guards
var (
	_ model.IPResolver = (*HTTPResolver)(nil)
	_ model.IPResolver = (*MMDBResolver)(nil)
)
