package httpx

import (
	"net"
	"net/http"
	"time"
)

const (
	defaultClientTimeout         = 10 * time.Second
	defaultDialTimeout           = 3 * time.Second
	defaultResponseHeaderTimeout = 5 * time.Second
	defaultIdleConnTimeout       = 30 * time.Second
	defaultMaxIdleConnsPerHost   = 4
)

// NewClient returns an HTTP client with bounded dial, header and overall
// timeouts. A zero timeout falls back to ten seconds; pass a negative value
// for uploads that must not be cut off by an overall deadline.
func NewClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = defaultClientTimeout
	}

	dialTimeout := defaultDialTimeout
	headerTimeout := defaultResponseHeaderTimeout
	if timeout > 0 {
		dialTimeout = min(dialTimeout, timeout)
		headerTimeout = min(headerTimeout, timeout)
	} else {
		timeout = 0
		// the server answers an upload only after the body is stored
		headerTimeout = 0
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			TLSHandshakeTimeout:   dialTimeout,
			ResponseHeaderTimeout: headerTimeout,
			ExpectContinueTimeout: time.Second,
		},
	}
}
