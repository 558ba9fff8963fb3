package domain

import (
	"fmt"
	"strings"

	distance "shipping-distance/internal/features/distance/domain"
)

// UnspecifiedClassID is the shipping class of products without one.
const UnspecifiedClassID = 0

// CartLine is one product line of the cart.
type CartLine struct {
	ProductID       string `json:"product_id"`
	ShippingClassID int    `json:"shipping_class_id"`
	Quantity        int    `json:"quantity"`
	NeedsShipping   bool   `json:"needs_shipping"`
}

// Cart is the read-only input of a shipping calculation.
type Cart struct {
	Destination distance.Location `json:"destination"`
	Subtotal    float64           `json:"subtotal"`
	Lines       []CartLine        `json:"lines"`
}

// CartSummary holds the totals rules are matched against.
type CartSummary struct {
	Subtotal float64
	Quantity int
}

// ShippableLines returns the lines that need shipping, in cart order.
func (c Cart) ShippableLines() []CartLine {
	var lines []CartLine
	for _, l := range c.Lines {
		if l.NeedsShipping {
			lines = append(lines, l)
		}
	}
	return lines
}

// Summary returns the subtotal and the total shippable item count.
func (c Cart) Summary() CartSummary {
	s := CartSummary{Subtotal: c.Subtotal}
	for _, l := range c.ShippableLines() {
		s.Quantity += l.Quantity
	}
	return s
}

// Signature renders the cart fields that influence the rate, for use in cache keys.
func (c Cart) Signature() string {
	var b strings.Builder
	fmt.Fprintf(&b, "subtotal=%g", c.Subtotal)
	for _, l := range c.ShippableLines() {
		fmt.Fprintf(&b, "|%s:%d:%d", l.ProductID, l.ShippingClassID, l.Quantity)
	}
	return b.String()
}
