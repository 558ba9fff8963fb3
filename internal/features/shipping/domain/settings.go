package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	distance "shipping-distance/internal/features/distance/domain"

	"github.com/go-playground/validator/v10"
)

const (
	// MethodID identifies rates produced by this shipping method.
	MethodID = "distance_rate"
	// DefaultMethodTitle is used when the settings leave the title empty.
	DefaultMethodTitle = "Distance Rate"
	// FreeShippingLabel is the label of a free shipping rate without a title override.
	FreeShippingLabel = "Free Shipping"
)

// ShippingClass is a product shipping class with its own rate column.
type ShippingClass struct {
	ID   int    `mapstructure:"id" json:"id" validate:"gte=0"`
	Name string `mapstructure:"name" json:"name" validate:"required"`
}

// FreeShipping holds the thresholds that make shipping free. Zero disables a threshold.
type FreeShipping struct {
	MinOrderAmount   float64 `mapstructure:"min_order_amount" json:"min_order_amount" validate:"gte=0"`
	MinOrderQuantity int     `mapstructure:"min_order_quantity" json:"min_order_quantity" validate:"gte=0"`
}

// Enabled reports whether any threshold is configured.
func (f FreeShipping) Enabled() bool {
	return f.MinOrderAmount > 0 || f.MinOrderQuantity > 0
}

// Qualifies reports whether the cart meets every configured threshold.
func (f FreeShipping) Qualifies(cart CartSummary) bool {
	if !f.Enabled() {
		return false
	}
	if f.MinOrderAmount > 0 && cart.Subtotal < f.MinOrderAmount {
		return false
	}
	if f.MinOrderQuantity > 0 && cart.Quantity < f.MinOrderQuantity {
		return false
	}
	return true
}

// RawAddress is an address as written in a settings document.
type RawAddress struct {
	Address1 string `mapstructure:"address_1" json:"address_1"`
	Address2 string `mapstructure:"address_2" json:"address_2"`
	City     string `mapstructure:"city" json:"city"`
	State    string `mapstructure:"state" json:"state"`
	Postcode string `mapstructure:"postcode" json:"postcode"`
	Country  string `mapstructure:"country" json:"country"`
}

// Address converts r to a distance address.
func (r RawAddress) Address() distance.Address {
	return distance.Address{
		Address1: r.Address1,
		Address2: r.Address2,
		City:     r.City,
		State:    r.State,
		Postcode: r.Postcode,
		Country:  r.Country,
	}
}

// RawLocation is either a "lat,lng" coordinate or an address.
type RawLocation struct {
	Coordinate string      `mapstructure:"coordinate" json:"coordinate"`
	Address    *RawAddress `mapstructure:"address" json:"address"`
}

// RawDefaults are the global cost defaults as written in a settings document.
type RawDefaults struct {
	SurchargeType string   `mapstructure:"surcharge_type" json:"surcharge_type" validate:"omitempty,oneof=fixed percent percentage none"`
	Surcharge     *float64 `mapstructure:"surcharge" json:"surcharge" validate:"omitempty,gte=0"`
	DiscountType  string   `mapstructure:"discount_type" json:"discount_type" validate:"omitempty,oneof=fixed percent percentage none"`
	Discount      *float64 `mapstructure:"discount" json:"discount" validate:"omitempty,gte=0"`
	MinCost       *float64 `mapstructure:"min_cost" json:"min_cost" validate:"omitempty,gte=0"`
	MaxCost       *float64 `mapstructure:"max_cost" json:"max_cost" validate:"omitempty,gte=0"`
	TotalCostType string   `mapstructure:"total_cost_type" json:"total_cost_type"`
}

// RawSettings is the shipping settings document as edited by an administrator.
type RawSettings struct {
	MethodTitle           string           `mapstructure:"method_title" json:"method_title"`
	Origin                RawLocation      `mapstructure:"origin" json:"origin"`
	TravelMode            string           `mapstructure:"travel_mode" json:"travel_mode" validate:"omitempty,oneof=driving walking bicycling"`
	Avoid                 string           `mapstructure:"avoid" json:"avoid" validate:"omitempty,oneof=tolls highways ferries indoor"`
	Units                 string           `mapstructure:"units" json:"units" validate:"omitempty,oneof=metric imperial"`
	Language              string           `mapstructure:"language" json:"language" validate:"omitempty,bcp47_language_tag"`
	RoutePreference       string           `mapstructure:"route_preference" json:"route_preference" validate:"omitempty,oneof=shortest_distance longest_distance shortest_duration longest_duration"`
	RequiredAddressFields []string         `mapstructure:"required_address_fields" json:"required_address_fields" validate:"dive,oneof=address_1 address_2 city state postcode country"`
	RoundUpDistance       bool             `mapstructure:"round_up_distance" json:"round_up_distance"`
	EnableFallback        bool             `mapstructure:"enable_fallback" json:"enable_fallback"`
	ShowDistance          bool             `mapstructure:"show_distance" json:"show_distance"`
	Debug                 bool             `mapstructure:"debug" json:"debug"`
	FreeShipping          FreeShipping     `mapstructure:"free_shipping" json:"free_shipping"`
	Defaults              RawDefaults      `mapstructure:"defaults" json:"defaults"`
	ShippingClasses       []ShippingClass  `mapstructure:"shipping_classes" json:"shipping_classes" validate:"dive"`
	TableRates            []map[string]any `mapstructure:"table_rates" json:"table_rates"`
}

// Settings is the validated, immutable configuration of one calculation.
type Settings struct {
	MethodTitle           string
	Origin                distance.Location
	TravelMode            distance.TravelMode
	Restriction           distance.RouteRestriction
	UnitSystem            distance.UnitSystem
	Language              string
	RoutePreference       distance.RoutePreference
	RequiredAddressFields []distance.AddressField
	RoundUpDistance       bool
	EnableFallback        bool
	ShowDistance          bool
	Debug                 bool
	FreeShipping          FreeShipping
	Defaults              Defaults
	ShippingClasses       []ShippingClass
	Schema                *RuleSchema
	Table                 *RateTable

	rulesSignature string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BuildSettings validates raw and assembles Settings. Every problem found is
// reported at once through ValidationErrors.
func BuildSettings(raw RawSettings) (*Settings, error) {
	var errs ValidationErrors
	collectStructErrors(&errs, validate.Struct(raw))

	s := &Settings{
		MethodTitle:     strings.TrimSpace(raw.MethodTitle),
		TravelMode:      distance.TravelMode(raw.TravelMode),
		Restriction:     distance.RouteRestriction(raw.Avoid),
		UnitSystem:      distance.UnitSystem(raw.Units),
		Language:        raw.Language,
		RoundUpDistance: raw.RoundUpDistance,
		EnableFallback:  raw.EnableFallback,
		ShowDistance:    raw.ShowDistance,
		Debug:           raw.Debug,
		FreeShipping:    raw.FreeShipping,
		ShippingClasses: raw.ShippingClasses,
	}
	if s.MethodTitle == "" {
		s.MethodTitle = DefaultMethodTitle
	}
	if s.TravelMode == "" {
		s.TravelMode = distance.TravelModeDriving
	}
	if s.UnitSystem == "" {
		s.UnitSystem = distance.UnitSystemMetric
	}
	if pref, err := distance.ParseRoutePreference(raw.RoutePreference); err == nil {
		s.RoutePreference = pref
	}
	for _, f := range raw.RequiredAddressFields {
		s.RequiredAddressFields = append(s.RequiredAddressFields, distance.AddressField(f))
	}

	origin, err := buildOrigin(raw.Origin)
	if err != nil {
		errs.Add("origin", err.Error())
	}
	s.Origin = origin

	s.Defaults = buildDefaults(raw.Defaults, &errs)

	seen := make(map[int]bool)
	classes := make([]ShippingClass, 0, len(raw.ShippingClasses))
	for i, c := range raw.ShippingClasses {
		if seen[c.ID] {
			errs.Add(fmt.Sprintf("shipping_classes[%d].id", i), fmt.Sprintf("duplicate shipping class %d", c.ID))
			continue
		}
		seen[c.ID] = true
		classes = append(classes, c)
	}

	schema, err := NewRuleSchema(classes)
	if err != nil {
		errs.Add("shipping_classes", err.Error())
		return nil, errs.Err()
	}
	s.Schema = schema

	rules, err := NormalizeRules(schema, raw.TableRates)
	if err != nil {
		if rowErrs, ok := AsValidationErrors(err); ok {
			errs = append(errs, rowErrs...)
		} else {
			errs.Add("table_rates", err.Error())
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	s.Table = NewRateTable(rules)
	s.rulesSignature = RulesSignature(s.Table.Rules())
	return s, nil
}

func buildOrigin(raw RawLocation) (distance.Location, error) {
	coord := strings.TrimSpace(raw.Coordinate)
	hasAddress := raw.Address != nil && !raw.Address.Address().IsZero()

	switch {
	case coord != "" && hasAddress:
		return distance.Location{}, distance.ErrAmbiguousLocation
	case coord != "":
		c, err := distance.ParseCoordinate(coord)
		if err != nil {
			return distance.Location{}, err
		}
		return distance.AtCoordinate(c), nil
	case hasAddress:
		return distance.AtAddress(raw.Address.Address().Normalize()), nil
	}
	// A missing origin is reported per calculation, not rejected here.
	return distance.Location{}, nil
}

func buildDefaults(raw RawDefaults, errs *ValidationErrors) Defaults {
	d := Defaults{
		Surcharge: raw.Surcharge,
		Discount:  raw.Discount,
		MinCost:   raw.MinCost,
		MaxCost:   raw.MaxCost,
	}
	d.SurchargeType, _ = ParseAdjustmentType(raw.SurchargeType)
	d.DiscountType, _ = ParseAdjustmentType(raw.DiscountType)

	t, ok := ParseTotalCostType(raw.TotalCostType)
	if !ok {
		errs.Add("defaults.total_cost_type", fmt.Sprintf("unknown total cost type %q", raw.TotalCostType))
	}
	// The global default has nothing to inherit from.
	d.TotalCostType = t.Resolve(TotalFlatHighest)
	return d
}

func collectStructErrors(errs *ValidationErrors, err error) {
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("settings", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		errs.Add(field, validationMessage(fe))
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be at least " + fe.Param()
	case "bcp47_language_tag":
		return "must be a valid language tag"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// DistanceQuery builds the lookup from the configured origin to destination.
func (s *Settings) DistanceQuery(destination distance.Location) distance.DistanceQuery {
	return distance.DistanceQuery{
		Origin:      s.Origin,
		Destination: destination,
		TravelMode:  s.TravelMode,
		Restriction: s.Restriction,
		UnitSystem:  s.UnitSystem,
		Language:    s.Language,
	}
}

// FetchOptions returns the lookup options for cart. Debug mode bypasses cache reads.
func (s *Settings) FetchOptions(cart Cart) distance.FetchOptions {
	return distance.FetchOptions{
		Selector:    s.RoutePreference,
		RoundUp:     s.RoundUpDistance,
		Fallback:    s.EnableFallback,
		BypassCache: s.Debug,
		KeySalt:     s.CacheSalt(cart),
	}
}

// CacheSalt ties cached distances to the rule set, the options that change
// the stored value, and the cart.
func (s *Settings) CacheSalt(cart Cart) string {
	return fmt.Sprintf("rules=%s|round=%t|pref=%s|fallback=%t|%s",
		s.rulesSignature, s.RoundUpDistance, s.RoutePreference, s.EnableFallback, cart.Signature())
}

// MissingDestinationFields returns the required address fields destination lacks.
// Coordinates never miss anything.
func (s *Settings) MissingDestinationFields(destination distance.Location) []distance.AddressField {
	if destination.Address == nil || len(s.RequiredAddressFields) == 0 {
		return nil
	}
	return destination.Address.Missing(s.RequiredAddressFields)
}
