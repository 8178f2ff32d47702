// Package errors provides typed error values for the secstash application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by how they affect a run:
//
//   - Config errors abort the whole run (ErrInvalidConfig, ErrUnknownProfile)
//   - Integrity errors fail one operation (ErrIntegrity, ErrManifestMissing)
//   - Cipher errors fail one operation (ErrCipher)
//   - Placement errors fail one operation (ErrConflict, ErrLink);
//     ErrLink alone does not fail the run
//
// # Usage
//
// Return errors from internal packages:
//
//	if !digest.Equal(want, got) {
//	    return fmt.Errorf("%w: %s", errors.ErrIntegrity, relPath)
//	}
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, serrors.ErrUnknownProfile) {
//	    // Show user-friendly message
//	}
package errors
