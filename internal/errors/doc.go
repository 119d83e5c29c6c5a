// Package errors provides the error handling solution for rpg-protocol.
//
// This package provides:
//   - Structured errors with codes, messages, and metadata
//   - Error context preservation through wrapping
//   - Validation error helpers for world-definition checking
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("stat not found")
//	err := errors.AlreadyExistsf("stat %q already registered", name)
//
// Adding metadata:
//
//	err := errors.NotFound("stat not found").
//	    WithMeta("stat", name)
//
// Wrapping errors:
//
//	if err := graph.Finalize(); err != nil {
//	    return errors.Wrap(err, "failed to build world")
//	}
//
// # Error Checking
//
// Errors carry a Code and are matched by code, not by identity:
//
//	if errors.IsCycle(err) {
//	    // the derivation edge would close a cycle
//	}
//
//	switch errors.GetCode(err) {
//	case errors.CodeAlreadyExists:
//	case errors.CodeNotFound:
//	}
//
// All errors raised by this library indicate static data-definition
// mistakes. They are surfaced synchronously at the offending call and
// are never retried; the host decides whether to abort world
// construction or skip the offending definition.
package errors
