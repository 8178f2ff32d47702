// Package logger provides leveled CLI logging for secstash.
//
// The Logger writes colorized level prefixes via fatih/color. Info and
// debug output go to stdout and are gated behind the --verbose and
// --debug flags; warnings and errors always go to stderr.
package logger
