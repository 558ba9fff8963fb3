package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shipping-distance/internal/core/apperr"
	"shipping-distance/internal/core/config"
	"shipping-distance/internal/core/httpclient"
	"shipping-distance/internal/core/logger"
	distance "shipping-distance/internal/features/distance/domain"
	"shipping-distance/internal/features/shipping/domain"

	"go.uber.org/zap"
)

// errNotFound is returned by get on a 404.
var errNotFound = errors.New("woocommerce resource not found")

// WooCommerceCartAdapter implements the CartProvider interface using the WooCommerce REST API.
type WooCommerceCartAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the WooCommerce connection details.
	config config.WooCommerceConfig
}

// NewWooCommerceCartAdapter creates a new instance of WooCommerceCartAdapter.
func NewWooCommerceCartAdapter(cfg config.WooCommerceConfig) *WooCommerceCartAdapter {
	return &WooCommerceCartAdapter{
		client: httpclient.NewClient(10 * time.Second),
		config: cfg,
	}
}

// GetOrderCart fetches an order and its products and maps them to a cart.
func (a *WooCommerceCartAdapter) GetOrderCart(ctx context.Context, orderID string) (*domain.Cart, error) {
	var order wcOrder
	if err := a.get(ctx, "/orders/"+orderID, &order); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
		}
		return nil, err
	}

	cart := &domain.Cart{
		Destination: distance.AtAddress(order.Shipping.address().Normalize()),
		Lines:       make([]domain.CartLine, 0, len(order.LineItems)),
	}

	products := make(map[string]wcProduct)
	for _, item := range order.LineItems {
		subtotal, err := parseAmount(item.Subtotal)
		if err != nil {
			return nil, apperr.Parse(fmt.Sprintf("invalid subtotal on line %d", item.ID), err)
		}
		cart.Subtotal += subtotal

		product, err := a.product(ctx, products, item)
		if err != nil {
			return nil, err
		}

		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID:       strconv.Itoa(item.ProductID),
			ShippingClassID: product.ShippingClassID,
			Quantity:        item.Quantity,
			NeedsShipping:   !product.Virtual,
		})
	}

	return cart, nil
}

// HealthCheck verifies that the WooCommerce API is reachable and credentials are valid.
func (a *WooCommerceCartAdapter) HealthCheck(ctx context.Context) error {
	// Check orders endpoint with per_page=1 to verify auth and reachability
	if err := a.get(ctx, "/orders?per_page=1", nil); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// product returns the shipping attributes of a line, fetching each product or variation once.
// A deleted product ships in the unspecified class.
func (a *WooCommerceCartAdapter) product(ctx context.Context, seen map[string]wcProduct, item wcLineItem) (wcProduct, error) {
	path := "/products/" + strconv.Itoa(item.ProductID)
	if item.VariationID != 0 {
		path += "/variations/" + strconv.Itoa(item.VariationID)
	}
	if p, ok := seen[path]; ok {
		return p, nil
	}

	var p wcProduct
	if err := a.get(ctx, path, &p); err != nil {
		if !errors.Is(err, errNotFound) {
			return wcProduct{}, err
		}
		logger.Get().Warn("Product of order line not found", zap.String("path", path))
		p = wcProduct{ID: item.ProductID, ShippingClassID: domain.UnspecifiedClassID}
	}
	seen[path] = p
	return p, nil
}

// get performs an authenticated GET against the WooCommerce v3 API and decodes the
// JSON body into out. A nil out discards the body.
func (a *WooCommerceCartAdapter) get(ctx context.Context, path string, out any) error {
	url := fmt.Sprintf("%s/wp-json/wc/v3%s", strings.TrimRight(a.config.URL, "/"), path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Basic Auth using optimized string building
	authVal := make([]byte, 0, len(a.config.ConsumerKey)+len(a.config.ConsumerSecret)+1)
	authVal = fmt.Appendf(authVal, "%s:%s", a.config.ConsumerKey, a.config.ConsumerSecret)

	encoded := base64.StdEncoding.EncodeToString(authVal)
	req.Header.Add("Authorization", "Basic "+encoded)

	resp, err := a.client.Do(req)
	if err != nil {
		return apperr.Transport("failed to execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return errNotFound
		}
		return apperr.Transport(fmt.Sprintf("woocommerce API returned status: %d", resp.StatusCode), nil).
			WithCode(fmt.Sprintf("HTTP_%d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Parse("failed to decode response", err)
	}
	return nil
}

// parseAmount parses the decimal strings WooCommerce uses for money. Empty means zero.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// internal structs for mapping

// wcOrder represents the JSON structure of an order from WooCommerce API.
type wcOrder struct {
	// ID is the unique order ID.
	ID int `json:"id"`
	// Shipping holds the shipping address details.
	Shipping wcShipping `json:"shipping"`
	// LineItems contains the products ordered.
	LineItems []wcLineItem `json:"line_items"`
}

// wcShipping holds shipping address information.
type wcShipping struct {
	Address1 string `json:"address_1"`
	Address2 string `json:"address_2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

func (s wcShipping) address() distance.Address {
	return distance.Address{
		Address1: s.Address1,
		Address2: s.Address2,
		City:     s.City,
		State:    s.State,
		Postcode: s.Postcode,
		Country:  s.Country,
	}
}

// wcLineItem represents a product in the WooCommerce order.
type wcLineItem struct {
	// ID is the unique identifier for the line item.
	ID int `json:"id"`
	// ProductID is the ordered product.
	ProductID int `json:"product_id"`
	// VariationID is the ordered variation, zero for simple products.
	VariationID int `json:"variation_id"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`
	// Subtotal is the line total before discounts, as a decimal string.
	Subtotal string `json:"subtotal"`
}

// wcProduct holds the shipping attributes of a product or variation.
type wcProduct struct {
	ID              int  `json:"id"`
	ShippingClassID int  `json:"shipping_class_id"`
	Virtual         bool `json:"virtual"`
}
