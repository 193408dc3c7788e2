package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// DirectionsProvider computes road-network routes through an external routing
// service. Callers fall back to the haversine estimator when it fails, so
// implementations should return errors rather than degrade silently.
type DirectionsProvider interface {
	// GetRoute returns the road route visiting the points in order.
	GetRoute(ctx context.Context, points []kernel.GeoPoint) (services.RoutePlan, error)
}
