package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// RouteCandidate is one valid element of a distance matrix response.
type RouteCandidate struct {
	DistanceMeters  float64
	DistanceText    string
	DurationSeconds float64
	DurationText    string
}

// RouteSelector picks one route among the candidates of a response.
type RouteSelector interface {
	Select(candidates []RouteCandidate) (RouteCandidate, bool)
}

// RoutePreference is the built-in RouteSelector.
type RoutePreference string

const (
	PreferShortestDistance RoutePreference = "shortest_distance"
	PreferLongestDistance  RoutePreference = "longest_distance"
	PreferShortestDuration RoutePreference = "shortest_duration"
	PreferLongestDuration  RoutePreference = "longest_duration"
)

// Valid reports whether p is a known preference.
func (p RoutePreference) Valid() bool {
	switch p {
	case PreferShortestDistance, PreferLongestDistance, PreferShortestDuration, PreferLongestDuration:
		return true
	}
	return false
}

// ParseRoutePreference maps a settings value to a preference. Empty means shortest distance.
func ParseRoutePreference(s string) (RoutePreference, error) {
	if s == "" {
		return PreferShortestDistance, nil
	}
	p := RoutePreference(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown route preference %q", s)
	}
	return p, nil
}

// Select sorts a copy of candidates stably by the preference and returns the first.
// Candidates that compare equal keep their response order.
func (p RoutePreference) Select(candidates []RouteCandidate) (RouteCandidate, bool) {
	if len(candidates) == 0 {
		return RouteCandidate{}, false
	}

	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, p.compare)
	return sorted[0], true
}

func (p RoutePreference) compare(a, b RouteCandidate) int {
	switch p {
	case PreferLongestDistance:
		return cmp.Compare(b.DistanceMeters, a.DistanceMeters)
	case PreferShortestDuration:
		return cmp.Compare(a.DurationSeconds, b.DurationSeconds)
	case PreferLongestDuration:
		return cmp.Compare(b.DurationSeconds, a.DurationSeconds)
	default:
		return cmp.Compare(a.DistanceMeters, b.DistanceMeters)
	}
}

// FetchOptions carries the per-calculation settings for a distance lookup.
type FetchOptions struct {
	// Selector picks the route among the candidates. Nil means shortest distance.
	Selector RouteSelector
	// RoundUp applies a ceiling to the converted distance.
	RoundUp bool
	// Fallback retries once with a city-level destination when the street-level one fails.
	Fallback bool
	// BypassCache skips the cache read. Results are still stored.
	BypassCache bool
	// KeySalt is mixed into the cache key; it carries the rule set and cart signature.
	KeySalt string
}
