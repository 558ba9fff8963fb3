package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"shipping-distance/internal/core/apperr"

	"golang.org/x/text/language"
)

// TravelMode selects the transport used for routing.
type TravelMode string

const (
	TravelModeDriving   TravelMode = "driving"
	TravelModeWalking   TravelMode = "walking"
	TravelModeBicycling TravelMode = "bicycling"
)

// Valid reports whether m is a known travel mode.
func (m TravelMode) Valid() bool {
	switch m {
	case TravelModeDriving, TravelModeWalking, TravelModeBicycling:
		return true
	}
	return false
}

// RouteRestriction names a feature the route should avoid.
type RouteRestriction string

const (
	RestrictionNone     RouteRestriction = ""
	RestrictionTolls    RouteRestriction = "tolls"
	RestrictionHighways RouteRestriction = "highways"
	RestrictionFerries  RouteRestriction = "ferries"
	RestrictionIndoor   RouteRestriction = "indoor"
)

// Valid reports whether r is a known restriction.
func (r RouteRestriction) Valid() bool {
	switch r {
	case RestrictionNone, RestrictionTolls, RestrictionHighways, RestrictionFerries, RestrictionIndoor:
		return true
	}
	return false
}

// UnitSystem selects metric or imperial results.
type UnitSystem string

const (
	UnitSystemMetric   UnitSystem = "metric"
	UnitSystemImperial UnitSystem = "imperial"
)

// Valid reports whether u is a known unit system.
func (u UnitSystem) Valid() bool {
	return u == UnitSystemMetric || u == UnitSystemImperial
}

// DistanceUnit returns km for metric and mi for imperial.
func (u UnitSystem) DistanceUnit() DistanceUnit {
	if u == UnitSystemImperial {
		return UnitMiles
	}
	return UnitKilometers
}

// UnitSystemFor maps a distance unit back to its unit system.
func UnitSystemFor(unit DistanceUnit) UnitSystem {
	if unit == UnitMiles {
		return UnitSystemImperial
	}
	return UnitSystemMetric
}

// DistanceQuery describes one origin/destination lookup.
type DistanceQuery struct {
	Origin      Location         `json:"origin"`
	Destination Location         `json:"destination"`
	TravelMode  TravelMode       `json:"mode"`
	Restriction RouteRestriction `json:"avoid"`
	UnitSystem  UnitSystem       `json:"units"`
	Language    string           `json:"language"`
}

// Validate returns a configuration error for missing or malformed fields.
func (q DistanceQuery) Validate() error {
	if q.Origin.IsZero() {
		return apperr.Configuration("origin is not configured").WithCode("NO_ORIGIN")
	}
	if err := q.Origin.Validate(); err != nil {
		return apperr.Wrap(apperr.KindConfiguration, "invalid origin", err).WithCode("NO_ORIGIN")
	}
	if q.Destination.IsZero() {
		return apperr.Configuration("destination is missing").WithCode("NO_DESTINATION")
	}
	if err := q.Destination.Validate(); err != nil {
		return apperr.Wrap(apperr.KindConfiguration, "invalid destination", err).WithCode("NO_DESTINATION")
	}
	if !q.TravelMode.Valid() {
		return apperr.Configuration(fmt.Sprintf("unknown travel mode %q", q.TravelMode))
	}
	if !q.Restriction.Valid() {
		return apperr.Configuration(fmt.Sprintf("unknown route restriction %q", q.Restriction))
	}
	if !q.UnitSystem.Valid() {
		return apperr.Configuration(fmt.Sprintf("unknown unit system %q", q.UnitSystem))
	}
	if q.Language != "" {
		if _, err := language.Parse(q.Language); err != nil {
			return apperr.Wrap(apperr.KindConfiguration, fmt.Sprintf("invalid language tag %q", q.Language), err)
		}
	}
	return nil
}

// Normalize returns a copy with trimmed addresses, lower-cased enums and a canonical language tag.
func (q DistanceQuery) Normalize() DistanceQuery {
	out := DistanceQuery{
		Origin:      q.Origin.Normalize(),
		Destination: q.Destination.Normalize(),
		TravelMode:  TravelMode(strings.ToLower(strings.TrimSpace(string(q.TravelMode)))),
		Restriction: RouteRestriction(strings.ToLower(strings.TrimSpace(string(q.Restriction)))),
		UnitSystem:  UnitSystem(strings.ToLower(strings.TrimSpace(string(q.UnitSystem)))),
		Language:    strings.TrimSpace(q.Language),
	}
	if tag, err := language.Parse(out.Language); err == nil && out.Language != "" {
		out.Language = tag.String()
	}
	return out
}

// CacheKey hashes the normalized query together with salt, which carries
// the rate table and cart signature so entries never leak across configurations.
func (q DistanceQuery) CacheKey(salt string) string {
	payload, _ := json.Marshal(q.Normalize())

	h := sha256.New()
	h.Write(payload)
	h.Write([]byte{0})
	h.Write([]byte(salt))
	return "distance:" + hex.EncodeToString(h.Sum(nil))
}

// DistanceResult is the selected route converted to the configured unit.
type DistanceResult struct {
	// DistanceMeters is the raw distance reported by the service.
	DistanceMeters float64 `json:"distance_meters"`
	// Distance is DistanceMeters in Unit, rounded up when round-up is enabled.
	Distance float64 `json:"distance"`
	// Unit is the unit of Distance.
	Unit DistanceUnit `json:"unit"`
	// DistanceLabel is the human readable distance.
	DistanceLabel string `json:"distance_label"`
	// DurationSeconds is the travel time reported by the service.
	DurationSeconds float64 `json:"duration_seconds"`
	// DurationLabel is the human readable travel time.
	DurationLabel string `json:"duration_label"`
}
