// Package order provides the Order aggregate and its lifecycle state
// machine.
//
// Key business rules:
//   - Orders carry a positive demand, a delivery coordinate, and customer
//     contact details
//   - Status follows a strictly forward workflow:
//     pending -> assigned -> picked -> delivered
//   - A courier reference exists for every status except pending and is set
//     exactly once during assignment
//   - Pickup and delivery timestamps are recorded exactly once, by the
//     corresponding transition
package order
