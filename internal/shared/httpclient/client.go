// Package httpclient builds the pooled HTTP client used for outbound provider calls.
package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/giftregistry/server/internal/shared/config"
)

// New creates an HTTP client from cfg. Zero values fall back to the
// net/http defaults, except the overall timeout which defaults to 30s.
func New(cfg config.HTTPClientConfig) *http.Client {
	dialer := &net.Dialer{
		Timeout:   orDefault(cfg.DialTimeout, 5*time.Second),
		KeepAlive: orDefault(cfg.KeepAlive, 30*time.Second),
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     orDefault(cfg.IdleConnTimeout, 90*time.Second),
		TLSHandshakeTimeout: orDefault(cfg.TLSHandshakeTimeout, 10*time.Second),
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   orDefault(cfg.ResponseTimeout, 30*time.Second),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
