package httpclient

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"shipping-distance/internal/core/logger"
	"shipping-distance/internal/core/proxy"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RedactedValue replaces sensitive query parameter values in logs and errors.
const RedactedValue = "REDACTED"

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Redact lists query parameters whose values never reach the logs.
	Redact []string
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	target := RedactURL(req.URL, lrt.Redact...)

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", target),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.String("error", RedactError(err, lrt.Redact...)),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// RedactURL renders u with the values of the named query parameters replaced.
func RedactURL(u *url.URL, params ...string) string {
	if u == nil {
		return ""
	}
	if len(params) == 0 || u.RawQuery == "" {
		return u.String()
	}

	clone := *u
	query := clone.Query()
	for _, p := range params {
		if query.Has(p) {
			query.Set(p, RedactedValue)
		}
	}
	clone.RawQuery = query.Encode()
	return clone.String()
}

// RedactError strips the request URL from *url.Error values so that
// sensitive query parameters cannot leak through error text.
func RedactError(err error, params ...string) string {
	if err == nil {
		return ""
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		redacted := urlErr.URL
		if parsed, perr := url.Parse(urlErr.URL); perr == nil {
			redacted = RedactURL(parsed, params...)
		}
		return urlErr.Op + " " + redacted + ": " + urlErr.Err.Error()
	}
	return err.Error()
}

// Option customizes a client built by NewClient.
type Option func(*options)

type options struct {
	proxy   proxy.Settings
	redact  []string
	breaker *BreakerConfig
	limiter *rate.Limiter
}

// WithProxy routes requests through the given outbound proxy.
func WithProxy(p proxy.Settings) Option {
	return func(o *options) { o.proxy = p }
}

// WithRedactedParams hides the values of the named query parameters in logs.
func WithRedactedParams(params ...string) Option {
	return func(o *options) { o.redact = append(o.redact, params...) }
}

// WithCircuitBreaker wraps the transport with a circuit breaker.
func WithCircuitBreaker(cfg BreakerConfig) Option {
	return func(o *options) { o.breaker = &cfg }
}

// WithRateLimit paces outbound requests. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient returns an http.Client with logging middleware.
// Options add a proxy, a circuit breaker and request pacing underneath the logger.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var transport http.RoundTripper = http.DefaultTransport
	if o.proxy.HasProxy() {
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.Proxy = o.proxy.Func()
		transport = base
	}
	if o.breaker != nil {
		transport = NewBreakerRoundTripper(*o.breaker, transport)
	}
	if o.limiter != nil {
		transport = &RateLimitedRoundTripper{Proxied: transport, Limiter: o.limiter}
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: transport,
			Redact:  o.redact,
		},
		Timeout: timeout,
	}
}
