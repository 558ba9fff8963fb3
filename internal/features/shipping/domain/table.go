package domain

import (
	"cmp"
	"slices"
)

// RateTable holds the normalized rules in ascending max distance order.
type RateTable struct {
	rules []RateRule
}

// NewRateTable copies rules and sorts them stably by max distance.
func NewRateTable(rules []RateRule) *RateTable {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b RateRule) int {
		return cmp.Compare(a.MaxDistance, b.MaxDistance)
	})
	return &RateTable{rules: sorted}
}

// Match returns the first rule, in ascending max distance order, that covers
// distance and whose order constraints the cart satisfies.
func (t *RateTable) Match(distance float64, cart CartSummary) (RateRule, error) {
	for _, r := range t.rules {
		if r.Matches(distance, cart) {
			return r, nil
		}
	}
	return RateRule{}, ErrNoRuleMatch
}

// Rules returns a copy of the rules.
func (t *RateTable) Rules() []RateRule {
	return slices.Clone(t.rules)
}

// Len returns the number of rules.
func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}
