package domain

import (
	"math"
	"strconv"
)

// DistanceUnit is the unit a converted distance is expressed in.
type DistanceUnit string

const (
	UnitKilometers DistanceUnit = "km"
	UnitMiles      DistanceUnit = "mi"
)

const (
	// MetersToKilometers is the km multiplier.
	MetersToKilometers = 0.001
	// MetersToMiles is the mi multiplier.
	MetersToMiles = 0.000621371
)

// ConvertMeters converts meters to the given unit.
func ConvertMeters(meters float64, unit DistanceUnit) float64 {
	if unit == UnitMiles {
		return meters * MetersToMiles
	}
	return meters * MetersToKilometers
}

// RoundUp returns the ceiling of v, ignoring floating point noise below 1e-9.
func RoundUp(v float64) float64 {
	return math.Ceil(math.Round(v*1e9) / 1e9)
}

// FormatDistance renders a distance with its unit suffix, e.g. "8 km" or "2.5 mi".
func FormatDistance(v float64, unit DistanceUnit) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + string(unit)
}
