package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"shipping-distance/internal/core/apperr"
	"shipping-distance/internal/core/cache"
	"shipping-distance/internal/features/distance/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockMatrixProvider is a mock implementation of MatrixProvider for testing.
type mockMatrixProvider struct {
	calls   []domain.DistanceQuery
	results [][]domain.RouteCandidate
	errs    []error
}

// GetRoutes implements MatrixProvider. The n-th call returns the n-th scripted result.
func (m *mockMatrixProvider) GetRoutes(ctx context.Context, query domain.DistanceQuery) ([]domain.RouteCandidate, error) {
	i := len(m.calls)
	m.calls = append(m.calls, query)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i < len(m.results) {
		return m.results[i], nil
	}
	return []domain.RouteCandidate{{DistanceMeters: 8000, DistanceText: "8.0 km", DurationSeconds: 600, DurationText: "10 mins"}}, nil
}

// failingCache is a Cache whose every operation fails.
type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}
func (failingCache) Delete(ctx context.Context, key string) error { return errors.New("connection refused") }
func (failingCache) Ping(ctx context.Context) error              { return errors.New("connection refused") }
func (failingCache) Close() error                                { return nil }

func newTestCache(t *testing.T) (*cache.RedisAdapter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := cache.NewRedisAdapter("redis://"+mr.Addr(), "test:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c, mr
}

func streetQuery(address2 string) domain.DistanceQuery {
	return domain.DistanceQuery{
		Origin: domain.AtCoordinate(domain.Coordinate{Latitude: 4.6097, Longitude: -74.0817}),
		Destination: domain.AtAddress(domain.Address{
			Address1: "Carrera 7 # 71-21",
			Address2: address2,
			City:     "Bogota",
			State:    "DC",
			Postcode: "110231",
			Country:  "CO",
		}),
		TravelMode: domain.TravelModeDriving,
		UnitSystem: domain.UnitSystemMetric,
		Language:   "es",
	}
}

// TestDistanceService_Fetch_CachesWithinTTL verifies a second identical call never reaches the provider.
func TestDistanceService_Fetch_CachesWithinTTL(t *testing.T) {
	c, mr := newTestCache(t)
	provider := &mockMatrixProvider{}
	svc := NewDistanceService(provider, c)
	opts := domain.FetchOptions{KeySalt: "rules-v1"}

	first, err := svc.Fetch(context.Background(), streetQuery(""), opts)
	require.NoError(t, err)
	second, err := svc.Fetch(context.Background(), streetQuery(""), opts)
	require.NoError(t, err)

	assert.Len(t, provider.calls, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 8.0, second.Distance)
	assert.Equal(t, domain.UnitKilometers, second.Unit)

	// Entries expire after the TTL.
	mr.FastForward(CacheTTL + time.Second)
	_, err = svc.Fetch(context.Background(), streetQuery(""), opts)
	require.NoError(t, err)
	assert.Len(t, provider.calls, 2)
}

// TestDistanceService_Fetch_SaltSeparatesEntries verifies differing rule sets never share an entry.
func TestDistanceService_Fetch_SaltSeparatesEntries(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{}
	svc := NewDistanceService(provider, c)

	_, err := svc.Fetch(context.Background(), streetQuery(""), domain.FetchOptions{KeySalt: "rules-v1"})
	require.NoError(t, err)
	_, err = svc.Fetch(context.Background(), streetQuery(""), domain.FetchOptions{KeySalt: "rules-v2"})
	require.NoError(t, err)

	assert.Len(t, provider.calls, 2)
}

// TestDistanceService_Fetch_BypassCache verifies debug lookups skip the read but refresh the entry.
func TestDistanceService_Fetch_BypassCache(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{
		results: [][]domain.RouteCandidate{
			{{DistanceMeters: 8000, DistanceText: "8.0 km"}},
			{{DistanceMeters: 9000, DistanceText: "9.0 km"}},
		},
	}
	svc := NewDistanceService(provider, c)

	_, err := svc.Fetch(context.Background(), streetQuery(""), domain.FetchOptions{})
	require.NoError(t, err)
	bypassed, err := svc.Fetch(context.Background(), streetQuery(""), domain.FetchOptions{BypassCache: true})
	require.NoError(t, err)
	assert.Equal(t, 9.0, bypassed.Distance)
	assert.Len(t, provider.calls, 2)

	cached, err := svc.Fetch(context.Background(), streetQuery(""), domain.FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 9.0, cached.Distance, "bypassed lookups overwrite the stale entry")
	assert.Len(t, provider.calls, 2)
}

// TestDistanceService_Fetch_RoundUp verifies the ceiling is stored and the label regenerated.
func TestDistanceService_Fetch_RoundUp(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{
		results: [][]domain.RouteCandidate{{{DistanceMeters: 8200, DistanceText: "8.2 km"}}},
	}
	svc := NewDistanceService(provider, c)
	opts := domain.FetchOptions{RoundUp: true}

	result, err := svc.Fetch(context.Background(), streetQuery(""), opts)
	require.NoError(t, err)
	assert.Equal(t, 9.0, result.Distance)
	assert.Equal(t, "9 km", result.DistanceLabel)
	assert.Equal(t, 8200.0, result.DistanceMeters)

	cached, err := svc.Fetch(context.Background(), streetQuery(""), opts)
	require.NoError(t, err)
	assert.Equal(t, 9.0, cached.Distance)
	assert.Len(t, provider.calls, 1)
}

// TestDistanceService_Fetch_Imperial verifies mile conversion.
func TestDistanceService_Fetch_Imperial(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{
		results: [][]domain.RouteCandidate{{{DistanceMeters: 1609.34, DistanceText: "1.0 mi"}}},
	}
	svc := NewDistanceService(provider, c)

	q := streetQuery("")
	q.UnitSystem = domain.UnitSystemImperial
	result, err := svc.Fetch(context.Background(), q, domain.FetchOptions{})

	require.NoError(t, err)
	assert.Equal(t, domain.UnitMiles, result.Unit)
	assert.InDelta(t, 1.0, result.Distance, 0.001)
	assert.Equal(t, "1.0 mi", result.DistanceLabel)
}

// TestDistanceService_Fetch_Selector verifies the route preference picks among candidates.
func TestDistanceService_Fetch_Selector(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{
		results: [][]domain.RouteCandidate{{
			{DistanceMeters: 5000, DurationSeconds: 900},
			{DistanceMeters: 7000, DurationSeconds: 400},
		}},
	}
	svc := NewDistanceService(provider, c)

	result, err := svc.Fetch(context.Background(), streetQuery(""), domain.FetchOptions{Selector: domain.PreferShortestDuration})

	require.NoError(t, err)
	assert.Equal(t, 7000.0, result.DistanceMeters)
	assert.Equal(t, "7 km", result.DistanceLabel)
}

// TestDistanceService_Fetch_FallbackOnZeroResults verifies exactly one city-level retry.
func TestDistanceService_Fetch_FallbackOnZeroResults(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{
		errs: []error{apperr.Service("ZERO_RESULTS", "no route could be found between the origin and destination")},
	}
	svc := NewDistanceService(provider, c)

	result, err := svc.Fetch(context.Background(), streetQuery("Apto 301"), domain.FetchOptions{Fallback: true})

	require.NoError(t, err)
	assert.Equal(t, 8.0, result.Distance)
	require.Len(t, provider.calls, 2)

	retried := provider.calls[1].Destination.Address
	require.NotNil(t, retried)
	assert.Empty(t, retried.Address1)
	assert.Empty(t, retried.Address2)
	assert.Equal(t, "Bogota, DC, 110231, CO", retried.String())
}

// TestDistanceService_Fetch_FallbackFails verifies the overall fetch fails when the retry fails too.
func TestDistanceService_Fetch_FallbackFails(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{
		errs: []error{
			apperr.Service("ZERO_RESULTS", "no route"),
			apperr.Service("NOT_FOUND", "not geocoded"),
		},
	}
	svc := NewDistanceService(provider, c)

	_, err := svc.Fetch(context.Background(), streetQuery("Apto 301"), domain.FetchOptions{Fallback: true})

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.CodeOf(err))
	assert.Len(t, provider.calls, 2)
}

// TestDistanceService_Fetch_NoFallbackWithoutAddress2 verifies the retry needs a second address line.
func TestDistanceService_Fetch_NoFallbackWithoutAddress2(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{
		errs: []error{apperr.Service("ZERO_RESULTS", "no route")},
	}
	svc := NewDistanceService(provider, c)

	_, err := svc.Fetch(context.Background(), streetQuery(""), domain.FetchOptions{Fallback: true})

	require.Error(t, err)
	assert.Len(t, provider.calls, 1)
}

// TestDistanceService_Fetch_NoFallbackWhenDisabled verifies the retry is opt-in.
func TestDistanceService_Fetch_NoFallbackWhenDisabled(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{
		errs: []error{apperr.Service("ZERO_RESULTS", "no route")},
	}
	svc := NewDistanceService(provider, c)

	_, err := svc.Fetch(context.Background(), streetQuery("Apto 301"), domain.FetchOptions{})

	require.Error(t, err)
	assert.Len(t, provider.calls, 1)
}

// TestDistanceService_Fetch_NoFallbackOnParseError verifies malformed responses abort immediately.
func TestDistanceService_Fetch_NoFallbackOnParseError(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{
		errs: []error{apperr.Parse("failed to decode distance matrix response", errors.New("unexpected EOF"))},
	}
	svc := NewDistanceService(provider, c)

	_, err := svc.Fetch(context.Background(), streetQuery("Apto 301"), domain.FetchOptions{Fallback: true})

	require.Error(t, err)
	assert.Equal(t, apperr.KindParse, apperr.KindOf(err))
	assert.Len(t, provider.calls, 1)
}

// TestDistanceService_Fetch_InvalidQuery verifies configuration errors never reach the provider.
func TestDistanceService_Fetch_InvalidQuery(t *testing.T) {
	c, _ := newTestCache(t)
	provider := &mockMatrixProvider{}
	svc := NewDistanceService(provider, c)

	q := streetQuery("")
	q.Origin = domain.Location{}
	_, err := svc.Fetch(context.Background(), q, domain.FetchOptions{})

	assert.Equal(t, "NO_ORIGIN", apperr.CodeOf(err))
	assert.Empty(t, provider.calls)
}

// TestDistanceService_Fetch_CacheUnavailable verifies cache failures degrade to direct lookups.
func TestDistanceService_Fetch_CacheUnavailable(t *testing.T) {
	provider := &mockMatrixProvider{}
	svc := NewDistanceService(provider, failingCache{})

	result, err := svc.Fetch(context.Background(), streetQuery(""), domain.FetchOptions{})

	require.NoError(t, err)
	assert.Equal(t, 8.0, result.Distance)
	assert.Len(t, provider.calls, 1)
}
