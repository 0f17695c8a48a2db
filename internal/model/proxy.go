package model

import (
	"fmt"
	"time"
)

// ProxyType identifies the protocol spoken by a proxy endpoint.
type ProxyType string

const (
	TypeHTTP   ProxyType = "http"
	TypeSOCKS4 ProxyType = "socks4"
	TypeSOCKS5 ProxyType = "socks5"
)

// AllProxyTypes lists every supported type in a stable order, used when
// iterating sources and grouping results.
var AllProxyTypes = []ProxyType{TypeHTTP, TypeSOCKS4, TypeSOCKS5}

// ParseProxyType normalizes a user-supplied type string.
func ParseProxyType(s string) (ProxyType, error) {
	switch ProxyType(s) {
	case TypeHTTP, TypeSOCKS4, TypeSOCKS5:
		return ProxyType(s), nil
	}
	return "", fmt.Errorf("unknown proxy type %q", s)
}

// Endpoint is a normalized representation of a proxy entry parsed from
// source lines such as:
//
//	ip:port
//	ip:port:username:password
//	username:password@ip:port
//
// Immutable once parsed: host is non-empty and port is in 1..65535.
type Endpoint struct {
	Host     string
	Port     int
	Type     ProxyType
	Username string
	Password string
	Raw      string // original line for debugging
}

// Addr returns the endpoint in host:port form.
func (e Endpoint) Addr() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// Outcome is the pass/fail verdict of a single probe.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Anonymity classification for a working proxy.
const (
	AnonymityTransparent = "transparent"
	AnonymityAnonymous   = "anonymous"
	AnonymityUnknown     = "unknown"
)

// GeoInfo describes geographical information associated with an IP.
type GeoInfo struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

// IPResolver looks up geo information for an IP address.
type IPResolver interface {
	Lookup(ip string) (GeoInfo, error)
}

// ProbeResult is the final record for a single endpoint after probing and,
// when detailed mode is on, enrichment. Each dispatched endpoint produces
// exactly one ProbeResult; it is owned by the worker that computed it until
// handed to the result store and never mutated afterwards.
type ProbeResult struct {
	Endpoint   Endpoint      `json:"endpoint"`
	Outcome    Outcome       `json:"outcome"`
	Latency    time.Duration `json:"latency,omitempty"` // zero when not measured
	StatusCode int           `json:"status_code,omitempty"`
	ExitIP     string        `json:"exit_ip,omitempty"`
	Anonymity  string        `json:"anonymity,omitempty"`
	Location   *GeoInfo      `json:"location,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Working reports whether the probe succeeded.
func (r ProbeResult) Working() bool { return r.Outcome == OutcomeSuccess }
