// Package services holds the stateless domain services that sit between the
// aggregates and the routing solver: building a routing problem from the
// current pending orders and fleet, mapping a solver solution back onto
// courier and order aggregates, and estimating route geometry with the
// haversine formula.
package services
