package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"shipping-distance/internal/core/apperr"
	"shipping-distance/internal/core/httpclient"
	"shipping-distance/internal/core/logger"
	"shipping-distance/internal/features/distance/domain"

	"go.uber.org/zap"
)

const (
	// APIKeyParam is the query parameter carrying the API key.
	APIKeyParam = "key"

	statusOK = "OK"
)

// elementStatusMessages explains the per-pairing failure codes.
var elementStatusMessages = map[string]string{
	"NOT_FOUND":                 "the origin or destination could not be geocoded",
	"ZERO_RESULTS":              "no route could be found between the origin and destination",
	"MAX_ROUTE_LENGTH_EXCEEDED": "the route is too long to be processed",
}

// statusMessages explains the top-level failure codes when the service sends no message.
var statusMessages = map[string]string{
	"INVALID_REQUEST":         "the distance matrix request was invalid",
	"MAX_ELEMENTS_EXCEEDED":   "the request exceeded the per-query element limit",
	"MAX_DIMENSIONS_EXCEEDED": "the request exceeded the origin or destination limit",
	"OVER_DAILY_LIMIT":        "the API key is invalid, billing is disabled or the daily limit was reached",
	"OVER_QUERY_LIMIT":        "too many requests were sent in the allowed time",
	"REQUEST_DENIED":          "the distance matrix service denied the request",
	"UNKNOWN_ERROR":           "the distance matrix service failed with an unknown error",
}

// GoogleMatrixAdapter implements ports.MatrixProvider against the Google Distance Matrix API.
type GoogleMatrixAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// baseURL is the service endpoint.
	baseURL string
	// apiKey is sent as the "key" parameter and redacted everywhere else.
	apiKey string
}

// NewGoogleMatrixAdapter creates a new instance of GoogleMatrixAdapter.
func NewGoogleMatrixAdapter(client *http.Client, baseURL, apiKey string) *GoogleMatrixAdapter {
	return &GoogleMatrixAdapter{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// GetRoutes fetches the matrix for the query and returns its elements.
// An element with a failure status aborts parsing of the whole response.
func (a *GoogleMatrixAdapter) GetRoutes(ctx context.Context, query domain.DistanceQuery) ([]domain.RouteCandidate, error) {
	if a.apiKey == "" {
		return nil, apperr.Configuration("distance matrix API key is not configured").WithCode("NO_API_KEY")
	}

	endpoint, err := a.buildURL(query)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfiguration, "invalid distance matrix URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Transport("failed to create request", errors.New(httpclient.RedactError(err, APIKeyParam)))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		// The *url.Error carries the full URL; only its redacted rendering may escape.
		return nil, apperr.Transport("distance matrix request failed", errors.New(httpclient.RedactError(err, APIKeyParam)))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Transport(fmt.Sprintf("distance matrix returned HTTP %d", resp.StatusCode), nil).
			WithCode(fmt.Sprintf("HTTP_%d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Transport("failed to read response body", err)
	}

	var matrix matrixResponse
	if err := json.Unmarshal(body, &matrix); err != nil {
		return nil, apperr.Parse("failed to decode distance matrix response", err)
	}

	return parseMatrix(matrix)
}

// buildURL renders the request URL including the API key.
func (a *GoogleMatrixAdapter) buildURL(query domain.DistanceQuery) (string, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return "", err
	}

	params := u.Query()
	params.Set(APIKeyParam, a.apiKey)
	params.Set("mode", string(query.TravelMode))
	params.Set("avoid", string(query.Restriction))
	params.Set("units", string(query.UnitSystem))
	params.Set("language", query.Language)
	params.Set("origins", query.Origin.String())
	params.Set("destinations", query.Destination.String())
	u.RawQuery = params.Encode()

	logger.Get().Debug("Distance matrix request built",
		zap.String("url", httpclient.RedactURL(u, APIKeyParam)),
	)

	return u.String(), nil
}

// parseMatrix validates statuses and flattens rows into candidates in response order.
func parseMatrix(matrix matrixResponse) ([]domain.RouteCandidate, error) {
	if matrix.Status != statusOK {
		message := matrix.ErrorMessage
		if message == "" {
			message = statusMessages[matrix.Status]
		}
		if message == "" {
			message = "distance matrix request failed"
		}
		return nil, apperr.Service(matrix.Status, message)
	}

	var candidates []domain.RouteCandidate
	for _, row := range matrix.Rows {
		for _, element := range row.Elements {
			if element.Status != statusOK {
				message, ok := elementStatusMessages[element.Status]
				if !ok {
					message = "the distance matrix could not compute this pairing"
				}
				return nil, apperr.Service(element.Status, message)
			}
			candidates = append(candidates, domain.RouteCandidate{
				DistanceMeters:  element.Distance.Value,
				DistanceText:    element.Distance.Text,
				DurationSeconds: element.Duration.Value,
				DurationText:    element.Duration.Text,
			})
		}
	}

	if len(candidates) == 0 {
		return nil, apperr.Service("ZERO_RESULTS", elementStatusMessages["ZERO_RESULTS"])
	}

	return candidates, nil
}

// internal structs for mapping

// matrixResponse represents the JSON structure of a distance matrix response.
type matrixResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
	Rows         []matrixRow `json:"rows"`
}

type matrixRow struct {
	Elements []matrixElement `json:"elements"`
}

type matrixElement struct {
	Status   string     `json:"status"`
	Distance textValue `json:"distance"`
	Duration textValue `json:"duration"`
}

// textValue is a numeric measurement paired with its display text.
type textValue struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}
