package catalog

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

const (
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 10 * time.Second
	dialTimeout           = 10 * time.Second
	keepAlivePeriod       = 30 * time.Second

	maxIdleConns        = 100
	maxIdleConnsPerHost = 20
	maxConnsPerHost     = 50
	idleConnTimeout     = 30 * time.Second
)

// newTransport builds the pooled transport shared by every catalog request.
// HTTP/2 is preferred; if negotiation setup fails we silently stay on
// HTTP/1.1, which the gateway also serves.
func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: keepAlivePeriod,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ResponseHeaderTimeout: responseHeaderTimeout,
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		MaxConnsPerHost:       maxConnsPerHost,
		IdleConnTimeout:       idleConnTimeout,
		ForceAttemptHTTP2:     true,
	}

	_ = http2.ConfigureTransport(transport)

	return transport
}
