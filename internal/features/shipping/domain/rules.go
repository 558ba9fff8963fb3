package domain

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// RateRule is one row of the rate table.
// Zero order constraints are unconstrained; nil adjustments defer to the global defaults.
type RateRule struct {
	MaxDistance      float64 `json:"max_distance"`
	MinOrderAmount   float64 `json:"min_order_amount,omitempty"`
	MaxOrderAmount   float64 `json:"max_order_amount,omitempty"`
	MinOrderQuantity int     `json:"min_order_quantity,omitempty"`
	MaxOrderQuantity int     `json:"max_order_quantity,omitempty"`

	// ClassRates maps a shipping class id to its rate per distance unit.
	ClassRates map[int]float64 `json:"class_rates,omitempty"`

	SurchargeType AdjustmentType `json:"surcharge_type,omitempty"`
	Surcharge     *float64       `json:"surcharge,omitempty"`
	DiscountType  AdjustmentType `json:"discount_type,omitempty"`
	Discount      *float64       `json:"discount,omitempty"`
	MinCost       *float64       `json:"min_cost,omitempty"`
	MaxCost       *float64       `json:"max_cost,omitempty"`

	TotalCostType TotalCostType `json:"total_cost_type"`
	FreeShipping  FreeShipping  `json:"free_shipping"`
	Title         string        `json:"title,omitempty"`
}

// Matches reports whether the rule covers distance and satisfies the cart constraints.
func (r RateRule) Matches(distance float64, cart CartSummary) bool {
	if distance > r.MaxDistance {
		return false
	}
	if r.MinOrderAmount > 0 && cart.Subtotal < r.MinOrderAmount {
		return false
	}
	if r.MaxOrderAmount > 0 && cart.Subtotal > r.MaxOrderAmount {
		return false
	}
	if r.MinOrderQuantity > 0 && cart.Quantity < r.MinOrderQuantity {
		return false
	}
	if r.MaxOrderQuantity > 0 && cart.Quantity > r.MaxOrderQuantity {
		return false
	}
	return true
}

// ClassRate returns the rate for classID, falling back to the unspecified class.
// Without either rate the line costs nothing.
func (r RateRule) ClassRate(classID int) float64 {
	if rate, ok := r.ClassRates[classID]; ok {
		return rate
	}
	return r.ClassRates[UnspecifiedClassID]
}

// NormalizeRules parses raw table rows against schema. Rows whose max distance
// is not positive are dropped. The result is sorted by max distance, keeping
// row order for equal distances.
func NormalizeRules(schema *RuleSchema, rows []map[string]any) ([]RateRule, error) {
	var errs ValidationErrors
	rules := make([]RateRule, 0, len(rows))

	for i, row := range rows {
		rule, rowErrs := schema.ParseRow(fmt.Sprintf("table_rates[%d]", i), row)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		if rule.MaxDistance <= 0 {
			continue
		}
		rules = append(rules, rule)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(rules, func(a, b RateRule) int {
		return cmp.Compare(a.MaxDistance, b.MaxDistance)
	})
	return rules, nil
}

// RulesSignature hashes the normalized rule set.
func RulesSignature(rules []RateRule) string {
	// Map keys are marshalled in sorted order, so equal rule sets hash equally.
	payload, _ := json.Marshal(rules)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
