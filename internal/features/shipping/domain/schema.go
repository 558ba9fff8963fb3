package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Rule field keys.
const (
	KeyMaxDistance          = "max_distance"
	KeyMinOrderAmount       = "min_order_amount"
	KeyMaxOrderAmount       = "max_order_amount"
	KeyMinOrderQuantity     = "min_order_quantity"
	KeyMaxOrderQuantity     = "max_order_quantity"
	KeySurchargeType        = "surcharge_type"
	KeySurcharge            = "surcharge"
	KeyDiscountType         = "discount_type"
	KeyDiscount             = "discount"
	KeyMinCost              = "min_cost"
	KeyMaxCost              = "max_cost"
	KeyTotalCostType        = "total_cost_type"
	KeyFreeShippingAmount   = "free_shipping_min_amount"
	KeyFreeShippingQuantity = "free_shipping_min_quantity"
	KeyTitle                = "title"

	rateClassPrefix = "rate_class_"
)

// RateClassKey returns the rule field key holding the per-distance rate of a shipping class.
func RateClassKey(classID int) string {
	return rateClassPrefix + strconv.Itoa(classID)
}

// FieldKind selects how a raw rule value is parsed and validated.
type FieldKind int

const (
	FieldDistance FieldKind = iota
	FieldPrice
	FieldQuantity
	FieldAmount
	FieldCostType
	FieldTotalCostType
	FieldText
)

// String returns the kind name used in error messages.
func (k FieldKind) String() string {
	switch k {
	case FieldDistance:
		return "distance"
	case FieldPrice:
		return "price"
	case FieldQuantity:
		return "quantity"
	case FieldAmount:
		return "amount"
	case FieldCostType:
		return "cost type"
	case FieldTotalCostType:
		return "total cost type"
	case FieldText:
		return "text"
	default:
		return "unknown"
	}
}

// fieldParser converts a raw value into the typed value of its kind.
// A nil raw value means the field was absent and yields the kind's default.
type fieldParser func(raw any) (any, error)

var fieldParsers = map[FieldKind]fieldParser{
	FieldDistance:      parseDistance,
	FieldPrice:         parseOptionalNumber,
	FieldQuantity:      parseQuantity,
	FieldAmount:        parseOptionalNumber,
	FieldCostType:      parseCostType,
	FieldTotalCostType: parseTotalCostType,
	FieldText:          parseText,
}

// Field describes one column of the rate table.
type Field struct {
	Key   string
	Label string
	Kind  FieldKind

	apply func(r *RateRule, v any)
}

// Parse converts raw with the parser registered for the field kind.
func (f Field) Parse(raw any) (any, error) {
	parse, ok := fieldParsers[f.Kind]
	if !ok {
		return nil, fmt.Errorf("no parser for field kind %d", f.Kind)
	}
	return parse(raw)
}

// RuleSchema is the ordered list of rate table fields.
type RuleSchema struct {
	fields []Field
}

// NewRuleSchema builds the schema with one rate field per shipping class,
// placed right after max_distance. The unspecified class always comes first.
func NewRuleSchema(classes []ShippingClass) (*RuleSchema, error) {
	s := &RuleSchema{fields: baseFields()}

	rates := []Field{rateClassField(UnspecifiedClassID, "No shipping class")}
	for _, c := range classes {
		if c.ID == UnspecifiedClassID {
			continue
		}
		rates = append(rates, rateClassField(c.ID, c.Name))
	}

	if err := s.InsertAfter(KeyMaxDistance, rates...); err != nil {
		return nil, err
	}
	return s, nil
}

// InsertAfter places fields right after the field named key.
func (s *RuleSchema) InsertAfter(key string, fields ...Field) error {
	i := s.index(key)
	if i < 0 {
		return fmt.Errorf("cannot insert after unknown field %q", key)
	}
	return s.insert(i+1, fields)
}

// InsertBefore places fields right before the field named key.
func (s *RuleSchema) InsertBefore(key string, fields ...Field) error {
	i := s.index(key)
	if i < 0 {
		return fmt.Errorf("cannot insert before unknown field %q", key)
	}
	return s.insert(i, fields)
}

func (s *RuleSchema) insert(at int, fields []Field) error {
	for i, f := range fields {
		if s.index(f.Key) >= 0 || slices.ContainsFunc(fields[:i], func(o Field) bool { return o.Key == f.Key }) {
			return fmt.Errorf("duplicate field %q", f.Key)
		}
	}
	s.fields = slices.Insert(s.fields, at, fields...)
	return nil
}

func (s *RuleSchema) index(key string) int {
	return slices.IndexFunc(s.fields, func(f Field) bool { return f.Key == key })
}

// Fields returns the fields in display order.
func (s *RuleSchema) Fields() []Field {
	return slices.Clone(s.fields)
}

// Keys returns the field keys in display order.
func (s *RuleSchema) Keys() []string {
	keys := make([]string, len(s.fields))
	for i, f := range s.fields {
		keys[i] = f.Key
	}
	return keys
}

// Field looks up a field by key.
func (s *RuleSchema) Field(key string) (Field, bool) {
	i := s.index(key)
	if i < 0 {
		return Field{}, false
	}
	return s.fields[i], true
}

// ParseRow converts one raw table row into a rule. Problems are reported
// under prefix, e.g. "table_rates[2].max_distance".
func (s *RuleSchema) ParseRow(prefix string, row map[string]any) (RateRule, ValidationErrors) {
	var errs ValidationErrors

	unknown := make([]string, 0)
	for key := range row {
		if s.index(key) < 0 {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	for _, key := range unknown {
		errs.Add(prefix+"."+key, "unknown field")
	}

	rule := RateRule{TotalCostType: TotalInherit}
	for _, f := range s.fields {
		v, err := f.Parse(row[f.Key])
		if err != nil {
			errs.Add(prefix+"."+f.Key, err.Error())
			continue
		}
		f.apply(&rule, v)
	}

	if rule.MinOrderAmount > 0 && rule.MaxOrderAmount > 0 && rule.MinOrderAmount > rule.MaxOrderAmount {
		errs.Add(prefix+"."+KeyMinOrderAmount, "must not exceed max_order_amount")
	}
	if rule.MinOrderQuantity > 0 && rule.MaxOrderQuantity > 0 && rule.MinOrderQuantity > rule.MaxOrderQuantity {
		errs.Add(prefix+"."+KeyMinOrderQuantity, "must not exceed max_order_quantity")
	}

	return rule, errs
}

func baseFields() []Field {
	return []Field{
		{Key: KeyMaxDistance, Label: "Maximum distance", Kind: FieldDistance,
			apply: func(r *RateRule, v any) { r.MaxDistance = v.(float64) }},
		{Key: KeyMinOrderAmount, Label: "Minimum order amount", Kind: FieldPrice,
			apply: func(r *RateRule, v any) { r.MinOrderAmount = valueOrZero(v.(*float64)) }},
		{Key: KeyMaxOrderAmount, Label: "Maximum order amount", Kind: FieldPrice,
			apply: func(r *RateRule, v any) { r.MaxOrderAmount = valueOrZero(v.(*float64)) }},
		{Key: KeyMinOrderQuantity, Label: "Minimum order quantity", Kind: FieldQuantity,
			apply: func(r *RateRule, v any) { r.MinOrderQuantity = v.(int) }},
		{Key: KeyMaxOrderQuantity, Label: "Maximum order quantity", Kind: FieldQuantity,
			apply: func(r *RateRule, v any) { r.MaxOrderQuantity = v.(int) }},
		{Key: KeySurchargeType, Label: "Surcharge type", Kind: FieldCostType,
			apply: func(r *RateRule, v any) { r.SurchargeType = v.(AdjustmentType) }},
		{Key: KeySurcharge, Label: "Surcharge", Kind: FieldAmount,
			apply: func(r *RateRule, v any) { r.Surcharge = v.(*float64) }},
		{Key: KeyDiscountType, Label: "Discount type", Kind: FieldCostType,
			apply: func(r *RateRule, v any) { r.DiscountType = v.(AdjustmentType) }},
		{Key: KeyDiscount, Label: "Discount", Kind: FieldAmount,
			apply: func(r *RateRule, v any) { r.Discount = v.(*float64) }},
		{Key: KeyMinCost, Label: "Minimum cost", Kind: FieldPrice,
			apply: func(r *RateRule, v any) { r.MinCost = v.(*float64) }},
		{Key: KeyMaxCost, Label: "Maximum cost", Kind: FieldPrice,
			apply: func(r *RateRule, v any) { r.MaxCost = v.(*float64) }},
		{Key: KeyTotalCostType, Label: "Total cost type", Kind: FieldTotalCostType,
			apply: func(r *RateRule, v any) { r.TotalCostType = v.(TotalCostType) }},
		{Key: KeyFreeShippingAmount, Label: "Free shipping minimum amount", Kind: FieldPrice,
			apply: func(r *RateRule, v any) { r.FreeShipping.MinOrderAmount = valueOrZero(v.(*float64)) }},
		{Key: KeyFreeShippingQuantity, Label: "Free shipping minimum quantity", Kind: FieldQuantity,
			apply: func(r *RateRule, v any) { r.FreeShipping.MinOrderQuantity = v.(int) }},
		{Key: KeyTitle, Label: "Title", Kind: FieldText,
			apply: func(r *RateRule, v any) { r.Title = v.(string) }},
	}
}

func rateClassField(classID int, name string) Field {
	label := "Rate"
	if name != "" {
		label = "Rate: " + name
	}
	return Field{
		Key:   RateClassKey(classID),
		Label: label,
		Kind:  FieldPrice,
		apply: func(r *RateRule, v any) {
			p := v.(*float64)
			if p == nil {
				return
			}
			if r.ClassRates == nil {
				r.ClassRates = make(map[int]float64)
			}
			r.ClassRates[classID] = *p
		},
	}
}

func valueOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// number reads a numeric raw value. Empty strings and nil are reported as absent.
func number(raw any) (float64, bool, error) {
	var v float64
	switch n := raw.(type) {
	case nil:
		return 0, false, nil
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case int32:
		v = float64(n)
	case uint64:
		v = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%q is not a number", n)
		}
		v = f
	default:
		return 0, false, fmt.Errorf("expected a number, got %T", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("must be a finite number")
	}
	return v, true, nil
}

func parseDistance(raw any) (any, error) {
	v, _, err := number(raw)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, fmt.Errorf("must not be negative")
	}
	return v, nil
}

func parseOptionalNumber(raw any) (any, error) {
	v, ok, err := number(raw)
	if err != nil {
		return nil, err
	}
	if !ok {
		return (*float64)(nil), nil
	}
	if v < 0 {
		return nil, fmt.Errorf("must not be negative")
	}
	return &v, nil
}

func parseQuantity(raw any) (any, error) {
	v, _, err := number(raw)
	if err != nil {
		return nil, err
	}
	if v < 0 || v != math.Trunc(v) {
		return nil, fmt.Errorf("must be a non-negative whole number")
	}
	return int(v), nil
}

func parseCostType(raw any) (any, error) {
	s, err := text(raw)
	if err != nil {
		return nil, err
	}
	t, ok := ParseAdjustmentType(s)
	if !ok {
		return nil, fmt.Errorf("must be fixed, percent or none, got %q", s)
	}
	return t, nil
}

func parseTotalCostType(raw any) (any, error) {
	s, err := text(raw)
	if err != nil {
		return nil, err
	}
	t, ok := ParseTotalCostType(s)
	if !ok {
		return nil, fmt.Errorf("unknown total cost type %q", s)
	}
	return t, nil
}

func parseText(raw any) (any, error) {
	return text(raw)
}

func text(raw any) (string, error) {
	switch s := raw.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(s), nil
	default:
		return "", fmt.Errorf("expected text, got %T", raw)
	}
}
