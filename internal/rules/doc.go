// Package rules resolves the declared rule configuration into concrete
// transfer operations.
//
// Resolution is a pure projection from config, profile, and direction
// to an ordered list of Operations. It performs no I/O and touches no
// state; the transfer engine consumes the resulting operations.
package rules
