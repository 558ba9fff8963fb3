package ports

import (
	"context"

	distance "shipping-distance/internal/features/distance/domain"
	"shipping-distance/internal/features/shipping/domain"
)

// DistanceFetcher resolves the distance between two locations.
// This is a Secondary Port (Driven Port).
type DistanceFetcher interface {
	Fetch(ctx context.Context, query distance.DistanceQuery, opts distance.FetchOptions) (*distance.DistanceResult, error)
}

// SettingsProvider returns the shipping settings active right now.
type SettingsProvider interface {
	// Current returns the latest valid settings. It never returns nil once loaded.
	Current() *domain.Settings
}

// CartProvider loads the cart of an existing order from the store.
// This is a Secondary Port (Driven Port).
type CartProvider interface {
	// GetOrderCart returns the shipping destination, subtotal and lines of an order.
	GetOrderCart(ctx context.Context, orderID string) (*domain.Cart, error)
}

// CostOverride adjusts the final cost of a computed rate.
type CostOverride interface {
	Override(rule domain.RateRule, cart domain.Cart, cost float64) float64
}

// CostOverrideFunc adapts a function to CostOverride.
type CostOverrideFunc func(rule domain.RateRule, cart domain.Cart, cost float64) float64

// Override implements CostOverride.
func (f CostOverrideFunc) Override(rule domain.RateRule, cart domain.Cart, cost float64) float64 {
	return f(rule, cart, cost)
}
