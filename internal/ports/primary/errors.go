// Package primary defines the primary ports (driving adapters) for the
// application: the service interfaces the CLI and any future transport layer
// call into, their boundary DTOs, and the shared error taxonomy.
package primary

import "errors"

// Error taxonomy for the installation engine. Services wrap these with
// context via fmt.Errorf("...: %w", Err...) so callers can match with
// errors.Is while still seeing what happened.
var (
	// ErrNotFound indicates a package, definition, workspace, or attempt
	// is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates an operation was requested in a state that
	// does not admit it (unpublished package, terminal attempt, version
	// already latest).
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict indicates the install is blocked: already installed, or
	// the pre-install check failed without force.
	ErrConflict = errors.New("conflict")

	// ErrTransactionFailure indicates the atomic mutation step failed;
	// the attempt has been marked FAILED.
	ErrTransactionFailure = errors.New("transaction failure")
)
