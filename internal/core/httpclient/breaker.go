package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"shipping-distance/internal/core/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a request.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig holds configuration for the transport circuit breaker.
type BreakerConfig struct {
	// Name identifies the circuit breaker in logs.
	Name string

	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Timeout is the period of open state before switching to half-open.
	Timeout time.Duration

	// MinRequests and FailureRatio decide when the breaker trips.
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig trips after at least 5 requests with a 50% failure rate
// and probes again after 30 seconds.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.5,
	}
}

// ServerError represents an HTTP 5xx server error counted as a breaker failure.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// BreakerRoundTripper rejects requests while the upstream is failing.
// It never retries: a rejected or failed request is returned to the caller as is.
type BreakerRoundTripper struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker[*http.Response]
}

// NewBreakerRoundTripper wraps next with a circuit breaker built from cfg.
func NewBreakerRoundTripper(cfg BreakerConfig, next http.RoundTripper) *BreakerRoundTripper {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Get().Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerRoundTripper{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

// RoundTrip executes the request through the circuit breaker.
func (b *BreakerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := b.cb.Execute(func() (*http.Response, error) { //nolint:bodyclose // returned to caller
		r, err := b.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if r.StatusCode >= http.StatusInternalServerError {
			return r, &ServerError{StatusCode: r.StatusCode}
		}
		return r, nil
	})
	if err != nil {
		var serverErr *ServerError
		if errors.As(err, &serverErr) && resp != nil {
			return resp, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w", b.cb.Name(), ErrCircuitOpen)
		}
		return nil, err
	}
	return resp, nil
}

// State returns the current breaker state.
func (b *BreakerRoundTripper) State() gobreaker.State {
	return b.cb.State()
}
