package enrich

import (
	"strings"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

// leakHeaders are request headers a proxy may forward that disclose the
// real client or announce the proxy hop.
var leakHeaders = []string{
	"X-Forwarded-For",
	"X-Forwarded-Host",
	"Forwarded",
	"Via",
	"X-Real-IP",
	"Proxy-Connection",
}

// AnonymityInput is what the echo service reported seeing for a request
// sent through the proxy, plus the caller's real IP observed without one.
type AnonymityInput struct {
	RealIP          string            // client IP without the proxy in the path
	ReportedIP      string            // IP the echo service saw
	HeadersObserved map[string]string // headers the echo service saw
}

// DetermineAnonymity classifies a working proxy. If the real client IP is
// disclosed verbatim, either as the reported origin or inside a forwarding
// header, the proxy is transparent; otherwise anonymous. Missing inputs
// classify as unknown rather than failing the result.
func DetermineAnonymity(in AnonymityInput) string {
	if in.RealIP == "" || in.ReportedIP == "" {
		return model.AnonymityUnknown
	}

	if in.ReportedIP == in.RealIP {
		return model.AnonymityTransparent
	}
	for _, h := range leakHeaders {
		if v := in.HeadersObserved[h]; v != "" && strings.Contains(v, in.RealIP) {
			return model.AnonymityTransparent
		}
	}

	return model.AnonymityAnonymous
}

// firstIPToken trims an "a, b" style origin list down to its first entry.
func firstIPToken(origin string) string {
	if origin == "" {
		return ""
	}
	parts := strings.Split(origin, ",")
	return strings.TrimSpace(parts[0])
}
