// Package utils provides small host-facing helpers: machine profile
// detection and terminal passphrase prompts.
package utils
