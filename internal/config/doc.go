// Package config loads and validates the secstash rule configuration.
//
// The configuration is a TOML file (secstash.toml) declaring export and
// import rules per profile:
//
//	[[exports.shared]]
//	source = "/secrets/common"
//	endpoint = "common"
//	files = ["ca.pem"]
//
//	[[imports.machine1]]
//	source = "/secrets/something"
//	endpoint = "machine1/something"
//	files = ["secret1"]
//	symlinks_to = "/etc/service"
//
// The reserved profile "shared" applies to every machine. Endpoint and
// file paths must be normalized relative paths; validation rejects
// anything that could escape the export root.
package config
