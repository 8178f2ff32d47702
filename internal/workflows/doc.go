// Package workflows contains the orchestration behind each CLI verb.
//
// Each workflow takes an Options struct and a context, wires the rule
// resolver, transfer engine, and integrity verifier together, records
// an audit entry, and returns a Result the command layer renders. The
// command layer owns all terminal interaction (prompts, spinners,
// formatting); workflows never prompt.
package workflows
