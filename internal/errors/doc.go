// Package errors provides the structured error handling used across the
// Ashfall simulation engine.
//
// This package provides:
//   - Structured errors with codes, messages, and metadata
//   - Error context preservation through wrapping
//   - Validation error helpers
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("run not found")
//	err := errors.InvalidArgumentf("invalid floor: %d", floor)
//
// Adding metadata:
//
//	err := errors.NotFound("run not found").
//	    WithMeta("run_id", runID)
//
// Wrapping errors:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to get run")
//	}
//
// # Error Checking
//
// Type checking:
//
//	if errors.IsNotFound(err) {
//	    // Handle not found case
//	}
//
// Extracting information:
//
//	code := errors.GetCode(err)
//	message := errors.GetMessage(err)
//	meta := errors.GetMeta(err)
//
// # Validation Errors
//
// Using the validation builder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("DungeonID", input.DungeonID, vb)
//	errors.ValidateRange("Floor", input.Floor, 1, 5, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Layer-Specific Guidelines
//
// Repository layer:
//   - Return domain-specific errors (NotFound, AlreadyExists)
//   - Include relevant IDs in metadata
//   - Wrap storage errors with context
//
// Orchestrator layer:
//   - Validate inputs and return InvalidArgument errors
//   - Check preconditions and return FailedPrecondition errors
//   - Wrap repository and authority errors with business context
//
// The transaction authority's failure taxonomy (not connected, submit
// failed, turn mismatch, ...) is deliberately not expressed as codes
// here: those are expected gameplay outcomes carried on authority.Result
// and handled by the reconciliation layer. This package covers
// programming and infrastructure errors.
package errors
