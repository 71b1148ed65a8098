// Package network provides the HTTP client used for the release check.
package network

import (
	"net/http"
	"time"

	"github.com/dashreel/dashreel/constant"
)

// Client identifies itself with the application user agent and gives up quickly.
var Client = &http.Client{
	Timeout:   5 * time.Second,
	Transport: &userAgent{base: newTransport()},
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 5 * time.Second
	return t
}

type userAgent struct {
	base http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", constant.UserAgent)
	}
	return u.base.RoundTrip(req)
}
