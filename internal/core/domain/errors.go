package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors and are always
// returned wrapped, so the underlying cause is preserved.
var (
	// ErrNotFound indicates a missing source file or document id.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat indicates an extension with no extractor.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrParseFailure indicates a format-specific extraction error.
	ErrParseFailure = errors.New("parse failure")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBackendUnavailable indicates a connection or auth failure
	// against the search backend.
	ErrBackendUnavailable = errors.New("search backend unavailable")

	// ErrQueryFailure indicates a malformed or oversized query.
	ErrQueryFailure = errors.New("query failure")

	// ErrHighlightTooLarge is the specific query failure raised when a
	// document exceeds the backend's highlighting analysis limit. The
	// query planner retries once without content highlighting when it
	// sees this kind.
	ErrHighlightTooLarge = errors.New("highlighting limit exceeded")

	// ErrCompletionFailure indicates the generative backend failed.
	// It is always recovered locally by the rule-based answer path and
	// never surfaced to callers.
	ErrCompletionFailure = errors.New("completion service failure")

	// ErrMigrationMismatch indicates a row-count mismatch after an
	// index migration. The temporary copy is kept in that case.
	ErrMigrationMismatch = errors.New("migration document count mismatch")
)
