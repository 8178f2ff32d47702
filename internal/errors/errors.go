package errors

import "errors"

// Configuration errors abort the run before any operation is attempted.
var (
	// ErrConfigNotFound indicates no configuration file could be located.
	ErrConfigNotFound = errors.New("no configuration file found")

	// ErrInvalidConfig indicates the configuration is malformed or inconsistent.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrUnknownProfile indicates the active profile has no shared or specific rules.
	ErrUnknownProfile = errors.New("profile has no rules")
)

// Integrity errors fail the affected operation; the run continues.
var (
	// ErrIntegrity indicates a checksum did not match its recorded value.
	ErrIntegrity = errors.New("checksum mismatch")

	// ErrManifestMissing indicates an expected sha256sums.txt could not be found.
	ErrManifestMissing = errors.New("checksum manifest not found")

	// ErrManifestFormat indicates a sha256sums.txt line could not be parsed.
	ErrManifestFormat = errors.New("ill-formatted checksum manifest")
)

// Cipher errors fail the affected operation; the run continues.
var (
	// ErrCipher indicates the encryption or decryption primitive failed,
	// typically because of a wrong passphrase or corrupt ciphertext.
	ErrCipher = errors.New("encryption primitive failed")

	// ErrPassphraseMismatch indicates the two passphrase prompts disagreed.
	ErrPassphraseMismatch = errors.New("passphrases do not match")
)

// Placement errors.
var (
	// ErrConflict indicates a file already exists at the target path with
	// different content. Existing files are never silently overwritten.
	ErrConflict = errors.New("existing file content differs")

	// ErrLink indicates a symlink could not be created because something
	// unrelated already occupies its path. Non-fatal to the run.
	ErrLink = errors.New("symlink path occupied")
)
