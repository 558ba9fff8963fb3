package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shipping-distance/internal/core/apperr"
	"shipping-distance/internal/core/cache"
	"shipping-distance/internal/core/logger"
	"shipping-distance/internal/features/distance/domain"
	"shipping-distance/internal/features/distance/ports"

	"go.uber.org/zap"
)

// CacheTTL is how long a distance result is served from the cache.
const CacheTTL = time.Hour

// DistanceService resolves distances through a MatrixProvider behind a short-lived cache.
type DistanceService struct {
	provider ports.MatrixProvider
	cache    cache.Cache
	ttl      time.Duration
	log      *zap.Logger
}

// NewDistanceService creates a new instance of DistanceService.
func NewDistanceService(provider ports.MatrixProvider, c cache.Cache) *DistanceService {
	return &DistanceService{
		provider: provider,
		cache:    c,
		ttl:      CacheTTL,
		log:      logger.Named("distance"),
	}
}

// Fetch returns the distance for the query, from the cache when possible.
func (s *DistanceService) Fetch(ctx context.Context, query domain.DistanceQuery, opts domain.FetchOptions) (*domain.DistanceResult, error) {
	query = query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	result, err := s.fetchOnce(ctx, query, opts)
	if err == nil {
		return result, nil
	}

	fallback, ok := fallbackQuery(query, opts, err)
	if !ok {
		return nil, err
	}

	s.log.Info("Retrying distance lookup without street address",
		zap.String("destination", fallback.Destination.String()),
		zap.Error(err),
	)

	result, fallbackErr := s.fetchOnce(ctx, fallback, opts)
	if fallbackErr != nil {
		return nil, apperr.Wrap(apperr.KindOf(fallbackErr), "fallback distance lookup failed", fallbackErr).
			WithCode(apperr.CodeOf(fallbackErr))
	}
	return result, nil
}

// fetchOnce performs one cache-aware lookup for a single query.
func (s *DistanceService) fetchOnce(ctx context.Context, query domain.DistanceQuery, opts domain.FetchOptions) (*domain.DistanceResult, error) {
	key := query.CacheKey(opts.KeySalt)

	if !opts.BypassCache {
		if cached, ok := s.readCache(ctx, key); ok {
			s.log.Debug("Distance served from cache", zap.String("key", key))
			return cached, nil
		}
	}

	candidates, err := s.provider.GetRoutes(ctx, query)
	if err != nil {
		s.log.Error("Distance lookup failed",
			zap.String("origin", query.Origin.String()),
			zap.String("destination", query.Destination.String()),
			zap.Stringer("kind", apperr.KindOf(err)),
			zap.Error(err),
		)
		return nil, err
	}

	selector := opts.Selector
	if selector == nil {
		selector = domain.PreferShortestDistance
	}
	route, ok := selector.Select(candidates)
	if !ok {
		return nil, apperr.Service("ZERO_RESULTS", "no route could be found between the origin and destination")
	}

	result := buildResult(route, query.UnitSystem.DistanceUnit(), opts.RoundUp)
	s.writeCache(ctx, key, result)

	return result, nil
}

func (s *DistanceService) readCache(ctx context.Context, key string) (*domain.DistanceResult, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("Cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var result domain.DistanceResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.log.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &result, true
}

func (s *DistanceService) writeCache(ctx context.Context, key string, result *domain.DistanceResult) {
	data, err := json.Marshal(result)
	if err != nil {
		s.log.Error("Failed to encode distance result", zap.Error(err))
		return
	}
	if err := cache.Replace(ctx, s.cache, key, data, s.ttl); err != nil {
		s.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// buildResult converts the selected route to unit and applies the round-up option.
func buildResult(route domain.RouteCandidate, unit domain.DistanceUnit, roundUp bool) *domain.DistanceResult {
	distance := domain.ConvertMeters(route.DistanceMeters, unit)
	label := route.DistanceText
	if roundUp {
		distance = domain.RoundUp(distance)
		label = domain.FormatDistance(distance, unit)
	}
	if label == "" {
		label = domain.FormatDistance(distance, unit)
	}

	return &domain.DistanceResult{
		DistanceMeters:  route.DistanceMeters,
		Distance:        distance,
		Unit:            unit,
		DistanceLabel:   label,
		DurationSeconds: route.DurationSeconds,
		DurationLabel:   route.DurationText,
	}
}

// fallbackQuery returns the city-level retry for a failed lookup, if one is allowed.
// Only transport and service errors on a destination with address_2 qualify.
func fallbackQuery(query domain.DistanceQuery, opts domain.FetchOptions, err error) (domain.DistanceQuery, bool) {
	if !opts.Fallback {
		return domain.DistanceQuery{}, false
	}
	kind := apperr.KindOf(err)
	if kind != apperr.KindTransport && kind != apperr.KindService {
		return domain.DistanceQuery{}, false
	}
	dest := query.Destination.Address
	if dest == nil || dest.Address2 == "" {
		return domain.DistanceQuery{}, false
	}

	narrowed := dest.WithoutStreet()
	if narrowed.IsZero() {
		return domain.DistanceQuery{}, false
	}
	query.Destination = domain.AtAddress(narrowed)
	return query, true
}
