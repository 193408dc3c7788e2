package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierRouteQueryIsNotConstructed = errors.New(
	"GetCourierRouteQuery must be created via NewGetCourierRouteQuery constructor",
)

// Route geometry sources reported in GetCourierRouteQueryResponse.
const (
	// RouteSourceDirections marks geometry computed by the road network provider.
	RouteSourceDirections = "directions"
	// RouteSourceHaversine marks the straight-line fallback estimate.
	RouteSourceHaversine = "haversine"
)

// GetCourierRouteQuery retrieves a courier's current route with estimated
// geometry: depot, stops in visiting order, back to depot.
type GetCourierRouteQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCourierRouteQuery creates a query for the given courier's route.
func NewGetCourierRouteQuery(courierID kernel.UUID) (GetCourierRouteQuery, error) {
	routeQuery := GetCourierRouteQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := routeQuery.setCourierID(courierID); err != nil {
		return GetCourierRouteQuery{}, err
	}

	return routeQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierRouteQueryIsNotConstructed)
}

// CourierID returns the courier whose route is requested.
func (q GetCourierRouteQuery) CourierID() kernel.UUID {
	return q.courierID
}

func (q *GetCourierRouteQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

// GetCourierRouteStopResponse represents one stop of the route read model.
type GetCourierRouteStopResponse struct {
	OrderID  kernel.UUID
	Address  string
	Location kernel.GeoPoint
	Status   string
}

// GetCourierRouteQueryResponse represents a courier's route in the read
// model. Distance and duration cover the depot round trip; Source names
// which estimator produced them.
type GetCourierRouteQueryResponse struct {
	CourierID        kernel.UUID
	CourierName      string
	Available        bool
	Stops            []GetCourierRouteStopResponse
	TotalDistanceKm  float64
	TotalDurationMin float64
	Source           string
}
