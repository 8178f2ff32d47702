// Package verify re-validates a completed export tree against its
// checksum manifests, independent of the transfer engine.
//
// It backs the `verify-export` command and runs as the mandatory
// closing pass of every export: a file can transfer successfully and
// still fail here if corruption crept in afterwards.
package verify
