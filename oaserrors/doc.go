// Package oaserrors provides structured error types for openapi-enforcer.
//
// Import path: github.com/marfarin/openapi-enforcer/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// These types are for failures at the seams of the core: a caller handed
// bad options, or a reference could not be resolved by the supplied
// resolver. Per-node structural and semantic problems discovered while
// walking a definition are never returned as a Go error — they are
// attached to an exception tree (see the exception package) at the
// offending path, so a single input can surface every problem it has.
//
// # Error Types
//
// The package provides three core error types:
//
//   - [ParseError]: raw definition decode failures (YAML/JSON, structural issues)
//   - [ReferenceError]: discriminator/$ref resolution failures, circular references, path traversal
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrPathTraversal]: Matches [ReferenceError] with IsPathTraversal=true
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	_, err := rawdoc.Decode(r)
//	if errors.Is(err, oaserrors.ErrParse) {
//	    // Handle decode error
//	}
//
// Extract error details with errors.As():
//
//	var refErr *oaserrors.ReferenceError
//	if errors.As(err, &refErr) {
//	    fmt.Printf("Failed to resolve ref: %s\n", refErr.Ref)
//	    if refErr.IsCircular {
//	        // Handle circular reference specifically
//	    }
//	}
//
// # Error Chaining
//
// All error types support error chaining via the Cause field and Unwrap() method.
// This allows finding root causes through the standard error chain:
//
//	var refErr *oaserrors.ReferenceError
//	if errors.As(err, &refErr) {
//	    if errors.Is(refErr.Cause, os.ErrNotExist) {
//	        // The reference file doesn't exist
//	    }
//	}
package oaserrors
