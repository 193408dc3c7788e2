package services

import (
	"dispatch/internal/core/domain/model/kernel"
)

// FallbackMinutesPerKm is the flat speed assumption used when no road network
// data is available: two minutes of travel per kilometre.
const FallbackMinutesPerKm = 2.0

// RouteLeg is the straight-line segment between two consecutive route points.
type RouteLeg struct {
	From        kernel.GeoPoint
	To          kernel.GeoPoint
	DistanceKm  float64
	DurationMin float64
}

// RoutePlan is an estimated route over an ordered point sequence.
type RoutePlan struct {
	Legs             []RouteLeg
	TotalDistanceKm  float64
	TotalDurationMin float64
}

// RouteEstimator computes route geometry for an ordered point sequence.
type RouteEstimator interface {
	// Estimate returns per-leg and total distance and duration. Fewer than
	// two points produce an empty plan.
	Estimate(points []kernel.GeoPoint) RoutePlan
}

type haversineEstimator struct{}

// NewHaversineEstimator creates the great-circle estimator used whenever a
// road network provider is unavailable or fails.
func NewHaversineEstimator() RouteEstimator {
	return haversineEstimator{}
}

func (haversineEstimator) Estimate(points []kernel.GeoPoint) RoutePlan {
	if len(points) < 2 {
		return RoutePlan{}
	}

	plan := RoutePlan{Legs: make([]RouteLeg, 0, len(points)-1)}
	for i := 1; i < len(points); i++ {
		// Points come from constructed aggregates, so the validation error
		// inside DistanceKm cannot fire here.
		distance, _ := points[i-1].DistanceKm(points[i])
		leg := RouteLeg{
			From:        points[i-1],
			To:          points[i],
			DistanceKm:  distance,
			DurationMin: distance * FallbackMinutesPerKm,
		}
		plan.Legs = append(plan.Legs, leg)
		plan.TotalDistanceKm += distance
		plan.TotalDurationMin += leg.DurationMin
	}
	return plan
}
