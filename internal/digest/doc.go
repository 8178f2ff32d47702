// Package digest implements the checksum primitive used throughout the
// export/import pipeline.
//
// The digest is SHA-256 and the hex encoding matches the format written
// to sha256sums.txt manifests, so exported trees remain verifiable with
// the standard sha256sum tool without secstash installed.
package digest
