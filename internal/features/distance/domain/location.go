package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidCoordinate is returned when latitude or longitude is out of range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrEmptyLocation is returned when a location carries neither a coordinate nor an address.
	ErrEmptyLocation = errors.New("location is empty")
	// ErrAmbiguousLocation is returned when a location carries both representations.
	ErrAmbiguousLocation = errors.New("location must be either a coordinate or an address")
)

// Coordinate is a geographic point.
type Coordinate struct {
	// Latitude in degrees, within [-90, 90].
	Latitude float64 `json:"lat"`
	// Longitude in degrees, within [-180, 180].
	Longitude float64 `json:"lng"`
}

// Validate rejects out of range values instead of clamping them.
func (c Coordinate) Validate() error {
	if !finite(c.Latitude) || !finite(c.Longitude) {
		return fmt.Errorf("%w: %v,%v is not a finite position", ErrInvalidCoordinate, c.Latitude, c.Longitude)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// String renders the coordinate as "lat,lng", the format the distance matrix expects.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// ParseCoordinate parses "lat,lng" and validates the result.
func ParseCoordinate(s string) (Coordinate, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: expected \"lat,lng\", got %q", ErrInvalidCoordinate, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: latitude: %v", ErrInvalidCoordinate, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: longitude: %v", ErrInvalidCoordinate, err)
	}
	c := Coordinate{Latitude: lat, Longitude: lng}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// AddressField names one component of an Address.
type AddressField string

const (
	AddressLine1    AddressField = "address_1"
	AddressLine2    AddressField = "address_2"
	AddressCity     AddressField = "city"
	AddressState    AddressField = "state"
	AddressPostcode AddressField = "postcode"
	AddressCountry  AddressField = "country"
)

// AddressFields lists the components in transmission order.
var AddressFields = []AddressField{
	AddressLine1, AddressLine2, AddressCity, AddressState, AddressPostcode, AddressCountry,
}

// AddressDelimiter joins address components for transmission.
const AddressDelimiter = ", "

// Address is a postal address. Empty components are skipped when it is rendered.
type Address struct {
	Address1 string `json:"address_1,omitempty"`
	Address2 string `json:"address_2,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Postcode string `json:"postcode,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Get returns the value of one component.
func (a Address) Get(field AddressField) string {
	switch field {
	case AddressLine1:
		return a.Address1
	case AddressLine2:
		return a.Address2
	case AddressCity:
		return a.City
	case AddressState:
		return a.State
	case AddressPostcode:
		return a.Postcode
	case AddressCountry:
		return a.Country
	}
	return ""
}

// Normalize trims every component.
func (a Address) Normalize() Address {
	return Address{
		Address1: strings.TrimSpace(a.Address1),
		Address2: strings.TrimSpace(a.Address2),
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		Postcode: strings.TrimSpace(a.Postcode),
		Country:  strings.TrimSpace(a.Country),
	}
}

// Components returns the non-empty components in transmission order.
func (a Address) Components() []string {
	out := make([]string, 0, len(AddressFields))
	for _, f := range AddressFields {
		if v := strings.TrimSpace(a.Get(f)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// String joins the non-empty components with AddressDelimiter.
func (a Address) String() string {
	return strings.Join(a.Components(), AddressDelimiter)
}

// IsZero reports whether every component is empty.
func (a Address) IsZero() bool {
	return len(a.Components()) == 0
}

// Missing returns the required fields that are empty.
func (a Address) Missing(required []AddressField) []AddressField {
	var missing []AddressField
	for _, f := range required {
		if strings.TrimSpace(a.Get(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// WithoutStreet drops both address lines, keeping city, state, postcode and country.
func (a Address) WithoutStreet() Address {
	a.Address1 = ""
	a.Address2 = ""
	return a
}

// Location is either a Coordinate or an Address; exactly one is set.
type Location struct {
	Coordinate *Coordinate `json:"coordinate,omitempty"`
	Address    *Address    `json:"address,omitempty"`
}

// AtCoordinate builds a coordinate location.
func AtCoordinate(c Coordinate) Location {
	return Location{Coordinate: &c}
}

// AtAddress builds an address location.
func AtAddress(a Address) Location {
	return Location{Address: &a}
}

// IsZero reports whether the location carries no usable representation.
func (l Location) IsZero() bool {
	return l.Coordinate == nil && (l.Address == nil || l.Address.IsZero())
}

// Validate checks that exactly one representation is set and that it is usable.
func (l Location) Validate() error {
	switch {
	case l.Coordinate != nil && l.Address != nil:
		return ErrAmbiguousLocation
	case l.Coordinate != nil:
		return l.Coordinate.Validate()
	case l.Address != nil && !l.Address.IsZero():
		return nil
	default:
		return ErrEmptyLocation
	}
}

// Normalize returns a deep copy with trimmed address components.
func (l Location) Normalize() Location {
	var out Location
	if l.Coordinate != nil {
		c := *l.Coordinate
		out.Coordinate = &c
	}
	if l.Address != nil {
		a := l.Address.Normalize()
		out.Address = &a
	}
	return out
}

// String renders the location as sent to the distance matrix.
func (l Location) String() string {
	switch {
	case l.Coordinate != nil:
		return l.Coordinate.String()
	case l.Address != nil:
		return l.Address.String()
	}
	return ""
}
