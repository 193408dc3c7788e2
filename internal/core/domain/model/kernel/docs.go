// Package kernel provides the shared domain primitives of the dispatch
// system.
//
// The package includes:
//   - UUID: a value object for aggregate identities with validation and
//     comparison capabilities
//   - GeoPoint: a validated WGS84 coordinate pair with great-circle distance
//
// These primitives are immutable, enforce their own invariants through
// constructors, and are safe for concurrent use.
package kernel
