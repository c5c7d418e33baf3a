package types

import "errors"

// Error taxonomy for the planning pipeline. Callers branch with errors.Is;
// adapters wrap these with fmt.Errorf("...: %w", Err...) so the cause text
// survives while the category stays checkable.
var (
	// ErrConfig marks a missing credential or dataset. Reported once, the
	// affected operation short-circuits.
	ErrConfig = errors.New("configuration missing or invalid")

	// ErrNotFound marks a resolver miss. Fatal to the whole run.
	ErrNotFound = errors.New("requested item not found")

	// ErrProvider marks a network, HTTP or parse failure from one adapter.
	// Recovered by degrading that category to a placeholder.
	ErrProvider = errors.New("provider request failed")

	// ErrEmptyResult marks a provider call that succeeded but returned
	// nothing. Distinct from ErrProvider; also degrades gracefully.
	ErrEmptyResult = errors.New("provider returned no results")

	// ErrGeneration marks an unavailable or empty text-generation response.
	// Fatal to the run, surfaced verbatim.
	ErrGeneration = errors.New("plan generation failed")
)
