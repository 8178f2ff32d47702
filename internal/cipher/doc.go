// Package cipher implements the passphrase-based encryption primitive
// for export artifacts.
//
// It wraps filippo.io/age in scrypt (passphrase) mode: exported files
// are standard age ciphertexts and can be recovered with the reference
// age tool (`age -d secret1.age`) if secstash itself is unavailable.
// The scrypt work factor is configurable so tests don't pay the full
// key-stretching cost.
package cipher
