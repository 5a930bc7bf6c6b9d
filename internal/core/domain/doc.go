// Package domain defines the core business entities for the copiloto pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested PDF document with metadata
//   - Fragment: A bounded slice of document text used for retrieval
//   - SearchOutcome: The result of a contextual retrieval pass
//   - Answer: A generated (or extracted) response with its method tag
//   - Classification: A topic label assignment with confidence
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
