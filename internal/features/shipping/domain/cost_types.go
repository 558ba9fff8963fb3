package domain

import "strings"

// AdjustmentType says how a surcharge or discount amount is applied.
type AdjustmentType string

const (
	// AdjustmentUnset defers to the global default, then to fixed.
	AdjustmentUnset   AdjustmentType = ""
	AdjustmentFixed   AdjustmentType = "fixed"
	AdjustmentPercent AdjustmentType = "percent"
	// AdjustmentNone disables the adjustment even when an amount is set.
	AdjustmentNone AdjustmentType = "none"
)

// ParseAdjustmentType accepts "fixed", "percent" (or "percentage"), "none" and empty.
func ParseAdjustmentType(s string) (AdjustmentType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return AdjustmentUnset, true
	case "fixed":
		return AdjustmentFixed, true
	case "percent", "percentage":
		return AdjustmentPercent, true
	case "none":
		return AdjustmentNone, true
	}
	return "", false
}

// TotalCostType selects how per-line costs are aggregated.
type TotalCostType string

const (
	TotalFlatHighest           TotalCostType = "flat_highest"
	TotalFlatAverage           TotalCostType = "flat_average"
	TotalFlatLowest            TotalCostType = "flat_lowest"
	TotalProgressivePerClass   TotalCostType = "progressive_per_shipping_class"
	TotalProgressivePerProduct TotalCostType = "progressive_per_product"
	TotalProgressivePerItem    TotalCostType = "progressive_per_item"
	TotalInherit               TotalCostType = "inherit"
)

// TotalCostTypes lists the concrete strategies in display order.
var TotalCostTypes = []TotalCostType{
	TotalFlatHighest,
	TotalFlatAverage,
	TotalFlatLowest,
	TotalProgressivePerClass,
	TotalProgressivePerProduct,
	TotalProgressivePerItem,
}

// ParseTotalCostType maps a settings value to a strategy. Empty means inherit.
// Dashes are accepted in place of underscores.
func ParseTotalCostType(s string) (TotalCostType, bool) {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if v == "" || v == string(TotalInherit) {
		return TotalInherit, true
	}
	if v == "progressive_per_class" {
		return TotalProgressivePerClass, true
	}
	for _, t := range TotalCostTypes {
		if v == string(t) {
			return t, true
		}
	}
	return "", false
}

// Resolve returns t, or fallback when t is inherit. An inherited inherit becomes flat highest.
func (t TotalCostType) Resolve(fallback TotalCostType) TotalCostType {
	if t != TotalInherit && t != "" {
		return t
	}
	if fallback != TotalInherit && fallback != "" {
		return fallback
	}
	return TotalFlatHighest
}
