// Package courier provides the Courier aggregate and its owned RouteStop
// entities.
//
// A courier alternates between two states: idle at the depot
// (available=true, atDepot=true) and out on a route (available=false,
// atDepot=false). An assignment run hands the courier an ordered stop list;
// pick and deliver actions advance the per-stop status until every stop is
// delivered, at which point the round completes and the courier returns to
// the depot.
//
// The assigned order set is derived from the route (stops not yet
// delivered), so the two collections the lifecycle mutates cannot drift
// apart.
package courier
