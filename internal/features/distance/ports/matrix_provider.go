package ports

import (
	"context"

	"shipping-distance/internal/features/distance/domain"
)

// MatrixProvider defines the interface for distance matrix services.
// This is a Secondary Port (Driven Port).
type MatrixProvider interface {
	// GetRoutes returns every valid element of the response for the query.
	// Failures are *apperr.Error values of kind Transport, Service or Parse.
	GetRoutes(ctx context.Context, query domain.DistanceQuery) ([]domain.RouteCandidate, error)
}
