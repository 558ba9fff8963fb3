package domain

import (
	"math"
	"testing"

	"shipping-distance/internal/core/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMeters(t *testing.T) {
	assert.Equal(t, 1.0, ConvertMeters(1000, UnitKilometers))
	assert.Equal(t, 8.0, ConvertMeters(8000, UnitKilometers))
	assert.Equal(t, 25.0, ConvertMeters(25000, UnitKilometers))
	assert.InDelta(t, 1.0, ConvertMeters(1609.34, UnitMiles), 0.001)
}

func TestRoundUp(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{in: 8, expected: 8},
		{in: 8.0000000000001, expected: 8},
		{in: 8.01, expected: 9},
		{in: 0.2, expected: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, RoundUp(tt.in), "RoundUp(%v)", tt.in)
	}
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "8 km", FormatDistance(8, UnitKilometers))
	assert.Equal(t, "2.5 mi", FormatDistance(2.5, UnitMiles))
}

func TestCoordinate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		c, err := ParseCoordinate("37.423021, -122.083739")
		require.NoError(t, err)
		assert.Equal(t, Coordinate{Latitude: 37.423021, Longitude: -122.083739}, c)
		assert.Equal(t, "37.423021,-122.083739", c.String())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := ParseCoordinate("91,0")
		assert.ErrorIs(t, err, ErrInvalidCoordinate)

		err = Coordinate{Latitude: 0, Longitude: -180.5}.Validate()
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	})

	t.Run("NotFinite", func(t *testing.T) {
		for _, raw := range []string{"NaN,NaN", "0,NaN", "Inf,0", "0,-Inf"} {
			_, err := ParseCoordinate(raw)
			assert.ErrorIs(t, err, ErrInvalidCoordinate, raw)
		}

		err := Coordinate{Latitude: math.NaN(), Longitude: 10}.Validate()
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := ParseCoordinate("abc")
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
		_, err = ParseCoordinate("1,x")
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	})
}

func TestAddress(t *testing.T) {
	a := Address{
		Address1: " 1600 Amphitheatre Pkwy ",
		Address2: "Building 40",
		City:     "Mountain View",
		State:    "CA",
		Postcode: "94043",
		Country:  "US",
	}

	assert.Equal(t, "1600 Amphitheatre Pkwy, Building 40, Mountain View, CA, 94043, US", a.String())
	assert.Equal(t, "Mountain View, CA, 94043, US", a.WithoutStreet().String())
	assert.Empty(t, a.Missing([]AddressField{AddressCity, AddressPostcode}))
	assert.Equal(t, []AddressField{AddressLine2}, Address{City: "X"}.Missing([]AddressField{AddressCity, AddressLine2}))
	assert.True(t, Address{City: "  "}.IsZero())
}

func TestLocation_Validate(t *testing.T) {
	c := Coordinate{Latitude: 1, Longitude: 2}
	a := Address{City: "Bogota"}

	assert.NoError(t, AtCoordinate(c).Validate())
	assert.NoError(t, AtAddress(a).Validate())
	assert.ErrorIs(t, Location{}.Validate(), ErrEmptyLocation)
	assert.ErrorIs(t, Location{Coordinate: &c, Address: &a}.Validate(), ErrAmbiguousLocation)
	assert.True(t, AtAddress(Address{}).IsZero())
}

func validQuery() DistanceQuery {
	return DistanceQuery{
		Origin:      AtCoordinate(Coordinate{Latitude: 37.423021, Longitude: -122.083739}),
		Destination: AtCoordinate(Coordinate{Latitude: 37.4259, Longitude: -122.1704}),
		TravelMode:  TravelModeDriving,
		UnitSystem:  UnitSystemMetric,
		Language:    "en-US",
	}
}

func TestDistanceQuery_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *DistanceQuery)
		code   string
	}{
		{name: "Valid", mutate: func(q *DistanceQuery) {}},
		{name: "NoOrigin", mutate: func(q *DistanceQuery) { q.Origin = Location{} }, code: "NO_ORIGIN"},
		{name: "NoDestination", mutate: func(q *DistanceQuery) { q.Destination = Location{} }, code: "NO_DESTINATION"},
		{name: "BadMode", mutate: func(q *DistanceQuery) { q.TravelMode = "flying" }},
		{name: "BadRestriction", mutate: func(q *DistanceQuery) { q.Restriction = "bridges" }},
		{name: "BadUnits", mutate: func(q *DistanceQuery) { q.UnitSystem = "nautical" }},
		{name: "BadLanguage", mutate: func(q *DistanceQuery) { q.Language = "not a tag!" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuery()
			tt.mutate(&q)
			err := q.Validate()
			if tt.name == "Valid" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
			if tt.code != "" {
				assert.Equal(t, tt.code, apperr.CodeOf(err))
			}
		})
	}
}

func TestDistanceQuery_CacheKey(t *testing.T) {
	q := validQuery()

	same := validQuery()
	same.Language = "en-us"
	same.TravelMode = " Driving "

	assert.Equal(t, q.CacheKey("rules-a"), q.CacheKey("rules-a"))
	assert.Equal(t, q.CacheKey("rules-a"), same.CacheKey("rules-a"), "normalized inputs hash identically")
	assert.NotEqual(t, q.CacheKey("rules-a"), q.CacheKey("rules-b"))

	other := validQuery()
	other.TravelMode = TravelModeWalking
	assert.NotEqual(t, q.CacheKey("rules-a"), other.CacheKey("rules-a"))
}

func TestRoutePreference_Select(t *testing.T) {
	candidates := []RouteCandidate{
		{DistanceMeters: 5000, DurationSeconds: 900, DistanceText: "a"},
		{DistanceMeters: 3000, DurationSeconds: 1200, DistanceText: "b"},
		{DistanceMeters: 7000, DurationSeconds: 600, DistanceText: "c"},
	}

	tests := []struct {
		pref     RoutePreference
		expected string
	}{
		{pref: PreferShortestDistance, expected: "b"},
		{pref: PreferLongestDistance, expected: "c"},
		{pref: PreferShortestDuration, expected: "c"},
		{pref: PreferLongestDuration, expected: "b"},
	}

	for _, tt := range tests {
		t.Run(string(tt.pref), func(t *testing.T) {
			got, ok := tt.pref.Select(candidates)
			require.True(t, ok)
			assert.Equal(t, tt.expected, got.DistanceText)
		})
	}

	assert.Equal(t, "a", candidates[0].DistanceText, "input order is untouched")
}

func TestRoutePreference_SelectTiesKeepOrder(t *testing.T) {
	candidates := []RouteCandidate{
		{DistanceMeters: 4000, DurationSeconds: 500, DistanceText: "first"},
		{DistanceMeters: 4000, DurationSeconds: 500, DistanceText: "second"},
	}

	for _, pref := range []RoutePreference{PreferShortestDistance, PreferLongestDistance, PreferShortestDuration, PreferLongestDuration} {
		got, ok := pref.Select(candidates)
		require.True(t, ok)
		assert.Equal(t, "first", got.DistanceText, string(pref))
	}

	_, ok := PreferShortestDistance.Select(nil)
	assert.False(t, ok)
}

func TestParseRoutePreference(t *testing.T) {
	p, err := ParseRoutePreference("")
	require.NoError(t, err)
	assert.Equal(t, PreferShortestDistance, p)

	_, err = ParseRoutePreference("scenic")
	assert.Error(t, err)
}
