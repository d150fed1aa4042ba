package utils

import (
	"net"
	"net/http"
	"time"
)

var (
	// GlobalHTTPClient is a shared HTTP client with sane defaults. The
	// overall timeout is deliberately short: a hung control API must not
	// stall the timer that scheduled the call.
	GlobalHTTPClient *http.Client
)

func init() {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   10, // Limit idle connections per host
	}

	GlobalHTTPClient = &http.Client{
		Transport: transport,
		Timeout:   10 * time.Second,
	}
}
