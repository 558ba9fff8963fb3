package domain

// Defaults are the global fallbacks for a rule's empty cost fields.
type Defaults struct {
	SurchargeType AdjustmentType `json:"surcharge_type,omitempty"`
	Surcharge     *float64       `json:"surcharge,omitempty"`
	DiscountType  AdjustmentType `json:"discount_type,omitempty"`
	Discount      *float64       `json:"discount,omitempty"`
	MinCost       *float64       `json:"min_cost,omitempty"`
	MaxCost       *float64       `json:"max_cost,omitempty"`
	TotalCostType TotalCostType  `json:"total_cost_type"`
}

// LineCost is the class rate of the line times the distance.
func LineCost(rule RateRule, line CartLine, distance float64) float64 {
	return rule.ClassRate(line.ShippingClassID) * distance
}

// Aggregate combines per-line costs with the strategy. costs[i] belongs to lines[i].
func Aggregate(strategy TotalCostType, lines []CartLine, costs []float64) float64 {
	if len(costs) == 0 {
		return 0
	}

	switch strategy {
	case TotalFlatAverage:
		var sum float64
		for _, c := range costs {
			sum += c
		}
		return sum / float64(len(costs))

	case TotalFlatLowest:
		lowest := costs[0]
		for _, c := range costs[1:] {
			lowest = min(lowest, c)
		}
		return lowest

	case TotalProgressivePerClass:
		return sumOfGroupMax(costs, func(i int) any { return lines[i].ShippingClassID })

	case TotalProgressivePerProduct:
		return sumOfGroupMax(costs, func(i int) any { return lines[i].ProductID })

	case TotalProgressivePerItem:
		var sum float64
		for i, c := range costs {
			sum += c * float64(lines[i].Quantity)
		}
		return sum

	default:
		highest := costs[0]
		for _, c := range costs[1:] {
			highest = max(highest, c)
		}
		return highest
	}
}

// sumOfGroupMax sums the highest cost seen for each distinct group.
func sumOfGroupMax(costs []float64, group func(i int) any) float64 {
	highest := make(map[any]float64)
	order := make([]any, 0)
	for i, c := range costs {
		g := group(i)
		prev, seen := highest[g]
		if !seen {
			order = append(order, g)
			highest[g] = c
			continue
		}
		highest[g] = max(prev, c)
	}

	var sum float64
	for _, g := range order {
		sum += highest[g]
	}
	return sum
}

// ComputeCost prices the cart with rule at distance. Lines that do not need
// shipping are ignored. Surcharge, discount, minimum and maximum are applied
// in that order, each falling back to defaults when the rule leaves it empty.
func ComputeCost(rule RateRule, lines []CartLine, distance float64, defaults Defaults) float64 {
	shippable := make([]CartLine, 0, len(lines))
	costs := make([]float64, 0, len(lines))
	for _, l := range lines {
		if !l.NeedsShipping {
			continue
		}
		shippable = append(shippable, l)
		costs = append(costs, LineCost(rule, l, distance))
	}

	strategy := rule.TotalCostType.Resolve(defaults.TotalCostType)
	cost := Aggregate(strategy, shippable, costs)

	cost = applyAdjustment(cost,
		pick(rule.SurchargeType, defaults.SurchargeType),
		pickAmount(rule.Surcharge, defaults.Surcharge), 1)
	cost = applyAdjustment(cost,
		pick(rule.DiscountType, defaults.DiscountType),
		pickAmount(rule.Discount, defaults.Discount), -1)
	cost = max(cost, 0)

	if minCost := pickAmount(rule.MinCost, defaults.MinCost); minCost != nil && *minCost > 0 && cost < *minCost {
		cost = *minCost
	}
	if maxCost := pickAmount(rule.MaxCost, defaults.MaxCost); maxCost != nil && *maxCost > 0 && cost > *maxCost {
		cost = *maxCost
	}

	return cost
}

// applyAdjustment adds (sign 1) or subtracts (sign -1) amount from cost.
func applyAdjustment(cost float64, kind AdjustmentType, amount *float64, sign float64) float64 {
	if amount == nil || kind == AdjustmentNone {
		return cost
	}
	if kind == AdjustmentPercent {
		return cost + sign*cost*(*amount)/100
	}
	return cost + sign*(*amount)
}

func pick(own, fallback AdjustmentType) AdjustmentType {
	if own != AdjustmentUnset {
		return own
	}
	if fallback != AdjustmentUnset {
		return fallback
	}
	return AdjustmentFixed
}

func pickAmount(own, fallback *float64) *float64 {
	if own != nil {
		return own
	}
	return fallback
}
