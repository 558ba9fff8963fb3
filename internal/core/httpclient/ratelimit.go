package httpclient

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitedRoundTripper waits for a limiter token before each request
// so that bursts of checkouts stay inside the upstream API quota.
type RateLimitedRoundTripper struct {
	Proxied http.RoundTripper
	Limiter *rate.Limiter
}

// RoundTrip blocks until a token is available or the request context ends.
func (r *RateLimitedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := r.Limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.Proxied.RoundTrip(req)
}
