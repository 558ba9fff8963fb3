package service

import (
	"context"

	"shipping-distance/internal/features/shipping/domain"
	"shipping-distance/internal/features/shipping/ports"
)

// OrderQuoteService prices the cart of an existing store order.
type OrderQuoteService struct {
	// carts loads order carts from the store.
	carts ports.CartProvider
	// calculator prices the loaded cart.
	calculator *ShippingCalculator
}

// NewOrderQuoteService creates a new instance of OrderQuoteService.
func NewOrderQuoteService(carts ports.CartProvider, calculator *ShippingCalculator) *OrderQuoteService {
	return &OrderQuoteService{
		carts:      carts,
		calculator: calculator,
	}
}

// QuoteOrder loads the order and runs the calculation on its cart.
// Only failures to load the order are returned as errors.
func (s *OrderQuoteService) QuoteOrder(ctx context.Context, orderID string) (Result, error) {
	cart, err := s.carts.GetOrderCart(ctx, orderID)
	if err != nil {
		return Result{}, err
	}
	if cart == nil {
		return Result{}, domain.ErrOrderNotFound
	}

	return s.calculator.Calculate(ctx, *cart), nil
}
