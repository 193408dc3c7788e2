package services

import (
	"dispatch/internal/core/domain/model/kernel"
)

// SolutionStop is one visit in a solved vehicle route.
type SolutionStop struct {
	OrderID  kernel.UUID
	Location kernel.GeoPoint
}

// VehicleRoute is the solver's plan for one vehicle: the ordered stops, the
// route length and the demand the vehicle carries.
type VehicleRoute struct {
	Stops        []SolutionStop
	DistanceKm   float64
	DemandServed int
}

// Solution is a solver answer keyed by the vehicle indices of the
// RoutingProblem that produced it. Vehicles left without orders are absent
// from Routes.
type Solution struct {
	Routes          map[int]VehicleRoute
	TotalDistanceKm float64
}
