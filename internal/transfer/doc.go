// Package transfer implements the export and import state machines that
// move secrets between their plaintext locations and an encrypted
// export tree.
//
// Each resolved operation runs to a terminal state independently:
//
//	export: PreCheck → Encrypt → self-check → Metadata Copy → Manifest Update
//	import: PreCheck → Decrypt → PostCheck → place → Metadata Copy → Symlink
//
// Failures are collected per operation and reported in aggregate; a
// damaged file never stops its siblings unless FailFast is set. The
// engine is sequential by default. With Jobs > 1 operations run through
// a bounded errgroup pool; the per-directory manifest is the only
// shared mutable state and its appends are serialized.
package transfer
