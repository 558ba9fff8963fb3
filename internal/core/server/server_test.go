package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"shipping-distance/internal/core/config"
	"shipping-distance/internal/core/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPinger is a mock implementation of Pinger for testing.
type mockPinger struct {
	err error
}

// Ping implements Pinger.
func (m mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// TestNew verifies that New creates a Server with the correct configuration.
func TestNew(t *testing.T) {
	cfg := &config.AppConfig{
		ServerPort: 8080,
	}

	logger.Init("development", "debug")
	srv := New(cfg, mockPinger{})

	require.NotNil(t, srv)
	assert.NotNil(t, srv.App)
	assert.Equal(t, cfg, srv.cfg)
}

// TestServer_Health verifies the health endpoint reflects cache reachability.
func TestServer_Health(t *testing.T) {
	logger.Init("development", "error")

	tests := []struct {
		name       string
		pinger     mockPinger
		wantStatus int
		wantBody   string
	}{
		{name: "Healthy", pinger: mockPinger{}, wantStatus: 200, wantBody: "ok"},
		{name: "CacheDown", pinger: mockPinger{err: errors.New("connection refused")}, wantStatus: 503, wantBody: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&config.AppConfig{}, tt.pinger)

			resp, err := srv.App.Test(httptest.NewRequest("GET", "/health", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))

			var body HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body.Status)
		})
	}
}

// TestServer_Run_Error verifies that Run returns an error when binding fails (e.g., privileged port).
func TestServer_Run_Error(t *testing.T) {
	// Privileged port 1 should fail
	cfg := &config.AppConfig{
		ServerPort: 1,
	}
	logger.Init("development", "error")

	srv := New(cfg, mockPinger{})

	errCh := make(chan error)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(1 * time.Second):
		srv.App.Shutdown()
		t.Log("Server unexpectedly started or timed out on Error test")
	}
}
