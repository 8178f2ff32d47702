// Package audit appends a JSONL record of every export, verify, and
// import run to the user's config directory.
//
// Audit logging is strictly best-effort: a run never fails because its
// audit entry could not be written.
package audit
