// Package domain defines the core business entities for ublkit.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Value: An ordered tagged union representing a mapped document tree
//   - KeyValuePair: A single flattened path/value row for CSV output
//   - ConversionResult: The in-memory result of one file conversion
//   - ProcessingResult / ProcessingSummary: Batch-mode results and aggregation
//   - Config: Typed, validated application configuration
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
