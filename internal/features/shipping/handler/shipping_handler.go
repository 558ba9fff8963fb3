package handler

import (
	"errors"
	"net/http"

	"shipping-distance/internal/core/logger"
	distance "shipping-distance/internal/features/distance/domain"
	"shipping-distance/internal/features/shipping/domain"
	"shipping-distance/internal/features/shipping/ports"
	"shipping-distance/internal/features/shipping/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ShippingHandler handles HTTP requests for shipping rates and settings.
type ShippingHandler struct {
	// calculator prices carts.
	calculator *service.ShippingCalculator
	// quotes prices store orders. It is nil when no store is configured.
	quotes *service.OrderQuoteService
	// settings exposes the active settings.
	settings ports.SettingsProvider
}

// NewShippingHandler creates a new instance of ShippingHandler.
func NewShippingHandler(calculator *service.ShippingCalculator, quotes *service.OrderQuoteService, settings ports.SettingsProvider) *ShippingHandler {
	return &ShippingHandler{
		calculator: calculator,
		quotes:     quotes,
		settings:   settings,
	}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// QuoteRequest is the cart to price.
type QuoteRequest struct {
	// Destination holds either a coordinate or an address.
	Destination distance.Location `json:"destination"`
	// Subtotal is the cart contents total.
	Subtotal float64 `json:"subtotal"`
	// Lines are the cart lines.
	Lines []LineRequest `json:"lines"`
}

// LineRequest is one cart line. NeedsShipping defaults to true.
type LineRequest struct {
	ProductID       string `json:"product_id"`
	ShippingClassID int    `json:"shipping_class_id"`
	Quantity        int    `json:"quantity"`
	NeedsShipping   *bool  `json:"needs_shipping"`
}

// RatesResponse lists the offered rates. Rates is empty when the rate is withheld.
type RatesResponse struct {
	Rates   []domain.RateDescriptor `json:"rates"`
	Outcome string                  `json:"outcome"`
}

// ValidationResponse is the result of validating a settings document.
type ValidationResponse struct {
	Valid  bool                    `json:"valid"`
	Rules  int                     `json:"rules,omitempty"`
	Errors domain.ValidationErrors `json:"errors,omitempty"`
}

// SchemaField describes one column of the rate table.
type SchemaField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// Cart converts the request into a domain cart.
func (r QuoteRequest) Cart() domain.Cart {
	cart := domain.Cart{
		Destination: r.Destination,
		Subtotal:    r.Subtotal,
		Lines:       make([]domain.CartLine, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		needsShipping := true
		if l.NeedsShipping != nil {
			needsShipping = *l.NeedsShipping
		}
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID:       l.ProductID,
			ShippingClassID: l.ShippingClassID,
			Quantity:        l.Quantity,
			NeedsShipping:   needsShipping,
		})
	}
	return cart
}

// GetRates prices a cart.
// @Summary Quote shipping rates for a cart
// @Description Computes the distance based shipping rate. Withheld rates return an empty list.
// @Tags shipping
// @Accept json
// @Produce json
// @Param cart body QuoteRequest true "Cart to price"
// @Success 200 {object} RatesResponse
// @Failure 400 {object} ErrorResponse
// @Router /shipping/rates [post]
func (h *ShippingHandler) GetRates(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	result := h.calculator.Calculate(c.UserContext(), req.Cart())

	return c.Status(http.StatusOK).JSON(RatesResponse{
		Rates:   result.Rates(),
		Outcome: string(result.Outcome),
	})
}

// GetOrderRates prices the cart of a store order.
// @Summary Quote shipping rates for an order
// @Description Loads the order from WooCommerce and computes its distance based shipping rate.
// @Tags shipping
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} RatesResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders/{id}/shipping-rates [get]
func (h *ShippingHandler) GetOrderRates(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if h.quotes == nil {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Message: "Order quotes are not enabled",
			RayID:   rayID(c),
		})
	}

	result, err := h.quotes.QuoteOrder(c.UserContext(), orderID)
	if err != nil {
		logger.Get().Error("Failed to quote order",
			zap.String("order_id", orderID),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)

		status := http.StatusInternalServerError
		msg := err.Error()
		if errors.Is(err, domain.ErrOrderNotFound) {
			status = http.StatusNotFound
			msg = "Order not found"
		}

		return c.Status(status).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(RatesResponse{
		Rates:   result.Rates(),
		Outcome: string(result.Outcome),
	})
}

// ValidateSettings checks a settings document without applying it.
// @Summary Validate a shipping settings document
// @Description Reports every problem found in the document at once.
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body domain.RawSettings true "Settings document"
// @Success 200 {object} ValidationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ValidationResponse
// @Router /settings/validate [post]
func (h *ShippingHandler) ValidateSettings(c *fiber.Ctx) error {
	var raw domain.RawSettings
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	settings, err := domain.BuildSettings(raw)
	if err != nil {
		errs, ok := domain.AsValidationErrors(err)
		if !ok {
			errs = domain.ValidationErrors{{Message: err.Error()}}
		}
		return c.Status(http.StatusUnprocessableEntity).JSON(ValidationResponse{
			Valid:  false,
			Errors: errs,
		})
	}

	return c.Status(http.StatusOK).JSON(ValidationResponse{
		Valid: true,
		Rules: settings.Table.Len(),
	})
}

// GetSchema lists the rate table columns of the active settings.
// @Summary Get the rate table columns
// @Tags settings
// @Produce json
// @Success 200 {array} SchemaField
// @Failure 503 {object} ErrorResponse
// @Router /settings/schema [get]
func (h *ShippingHandler) GetSchema(c *fiber.Ctx) error {
	s := h.settings.Current()
	if s == nil || s.Schema == nil {
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Message: "Shipping settings are not loaded",
			RayID:   rayID(c),
		})
	}

	fields := s.Schema.Fields()
	resp := make([]SchemaField, 0, len(fields))
	for _, f := range fields {
		resp = append(resp, SchemaField{Key: f.Key, Label: f.Label, Kind: f.Kind.String()})
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}
