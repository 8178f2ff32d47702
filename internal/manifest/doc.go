// Package manifest reads and writes the per-directory checksum ledger
// (sha256sums.txt) that certifies ciphertext files in an export tree.
//
// The manifest is cleartext and line-compatible with coreutils
// sha256sum, so an export can be re-verified on any machine with
// `sha256sum -c sha256sums.txt`, without a passphrase or secstash.
package manifest
