package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
	"h12.io/socks"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

// Strategy builds an HTTP client whose traffic is tunneled through the
// given endpoint, using the protocol the endpoint speaks. Strategies hold
// no state; one instance serves all workers.
type Strategy interface {
	Client(ep model.Endpoint, timeout time.Duration) (*http.Client, error)
}

// StrategyFor selects the protocol strategy for an endpoint type.
func StrategyFor(typ model.ProxyType) (Strategy, error) {
	switch typ {
	case model.TypeHTTP:
		return httpStrategy{}, nil
	case model.TypeSOCKS4:
		return socks4Strategy{}, nil
	case model.TypeSOCKS5:
		return socks5Strategy{}, nil
	}
	return nil, fmt.Errorf("no probe strategy for type %q", typ)
}

// httpStrategy tunnels through an HTTP(S) CONNECT proxy.
type httpStrategy struct{}

func (httpStrategy) Client(ep model.Endpoint, timeout time.Duration) (*http.Client, error) {
	u := &url.URL{
		Scheme: "http",
		Host:   ep.Addr(),
	}
	if ep.Username != "" || ep.Password != "" {
		u.User = url.UserPassword(ep.Username, ep.Password)
	}

	transport := &http.Transport{
		Proxy: http.ProxyURL(u),
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 0,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		DisableKeepAlives:     true,
	}

	// No client timeout here; the per-request context carries the deadline.
	return &http.Client{Transport: transport}, nil
}

// socks5Strategy dials the remote through a SOCKS5 proxy. The request
// itself is still a plain HTTP GET, only the TCP connection is tunneled.
type socks5Strategy struct{}

func (socks5Strategy) Client(ep model.Endpoint, timeout time.Duration) (*http.Client, error) {
	var auth *proxy.Auth
	if ep.Username != "" || ep.Password != "" {
		auth = &proxy.Auth{
			User:     ep.Username,
			Password: ep.Password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", ep.Addr(), auth, &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 0,
	})
	if err != nil {
		return nil, err
	}

	// x/net/proxy exposes Dial only; wrap it for http.Transport.DialContext.
	dialContext := func(ctx context.Context, network, addr string) (net.Conn, error) {
		type d interface {
			Dial(network, address string) (net.Conn, error)
		}
		if dd, ok := dialer.(d); ok {
			return dd.Dial(network, addr)
		}
		return nil, errors.New("socks5 dialer does not implement Dial")
	}

	transport := &http.Transport{
		DialContext:           dialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		DisableKeepAlives:     true,
	}
	return &http.Client{Transport: transport}, nil
}

// socks4Strategy dials through a SOCKS4 proxy. x/net/proxy has no SOCKS4
// support, so this uses the h12.io dial-function style instead.
type socks4Strategy struct{}

func (socks4Strategy) Client(ep model.Endpoint, timeout time.Duration) (*http.Client, error) {
	dialFn := socks.Dial(fmt.Sprintf("socks4://%s?timeout=%s", ep.Addr(), timeout))

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialFn(network, addr)
		},
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		DisableKeepAlives:     true,
	}
	return &http.Client{Transport: transport}, nil
}
