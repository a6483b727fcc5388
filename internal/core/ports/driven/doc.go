// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: Per-format text extraction, selected by extension
//   - AttachmentExtractor: Opt-in container payload extraction
//   - DocumentIndex: Indexing schema, write path, and query planning
//     against the search backend
//   - AnswerStrategy: Turns ranked results into a structured answer
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CompletionService: Generative text backend. Without it, answer
//     synthesis uses the deterministic rule engine only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
