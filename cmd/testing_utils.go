// Package cmd contains testing utilities shared between integration tests.
// This file provides common functions for capturing output and building
// export trees to run commands against.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/secstash/secstash/internal/digest"
	logger "github.com/secstash/secstash/internal/logging"
	"github.com/secstash/secstash/internal/manifest"
)

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// setupTestLogger installs a quiet logger and resets command state.
func setupTestLogger(t *testing.T) {
	t.Helper()
	ResetGlobalState()
	SetLogger(logger.Logger{})
	t.Cleanup(ResetGlobalState)
}

// writeExportTree writes files with matching sha256sums.txt manifests so
// that verify-export has something real to check.
func writeExportTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	manifests := make(map[string]*manifest.Manifest)
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, content, 0600); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		dir := filepath.Dir(rel)
		if dir == "." {
			dir = ""
		}
		m, ok := manifests[dir]
		if !ok {
			m = manifest.New()
			manifests[dir] = m
		}
		m.Append(filepath.Base(rel), digest.Sum(content))
	}
	for dir, m := range manifests {
		if err := m.WriteFile(filepath.Join(root, dir)); err != nil {
			t.Fatalf("Failed to write manifest: %v", err)
		}
	}
}
