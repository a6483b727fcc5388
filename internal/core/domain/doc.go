// Package domain defines the core business entities for DocSearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDocument: A normalised file ready for the write path
//   - IndexedDocument: A document as stored by the search backend
//   - SearchResult / SearchPage: Normalised query hits
//   - SynthesizedAnswer: The structured answer built from hits
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
