// Package domain defines the core business entities for placemap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Coordinate: An (east, north) pair; (0,0) marks "unresolved"
//   - LocationRecord: One saved place from the export
//   - CoordinateCache: Resolved coordinates keyed by reference URL
//   - ResolutionAttempt: One browser resolution outcome
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
