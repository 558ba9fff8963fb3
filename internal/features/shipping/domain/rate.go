package domain

import (
	distance "shipping-distance/internal/features/distance/domain"
)

// RateDescriptor is the shipping rate offered to the cart.
type RateDescriptor struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Cost     float64      `json:"cost"`
	Metadata RateMetadata `json:"meta_data"`
}

// RateMetadata carries the inputs that produced a rate.
type RateMetadata struct {
	Distance      *distance.DistanceResult `json:"distance,omitempty"`
	FreeShipping  bool                     `json:"free_shipping"`
	MaxDistance   float64                  `json:"rule_max_distance,omitempty"`
	TotalCostType TotalCostType            `json:"total_cost_type,omitempty"`
}

// RateLabel renders the label of a rate. A rule title overrides the method
// title and the free shipping label; show distance appends the distance label.
func RateLabel(s *Settings, rule RateRule, dist *distance.DistanceResult, free bool) string {
	label := s.MethodTitle
	if free {
		label = FreeShippingLabel
	}
	if rule.Title != "" {
		label = rule.Title
	}
	if s.ShowDistance && dist != nil && dist.DistanceLabel != "" {
		label += " (" + dist.DistanceLabel + ")"
	}
	return label
}
