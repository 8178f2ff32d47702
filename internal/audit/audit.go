package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`      // RFC3339 with microseconds.
	Operation string `json:"op"`      // export, verify-export, or import.
	Profile   string `json:"profile"` // Active profile for the run.

	// Optional fields depending on operation.
	Root      string `json:"root,omitempty"`       // Export/import tree root.
	Completed int    `json:"completed,omitempty"`  // Operations that succeeded.
	Skipped   int    `json:"skipped,omitempty"`    // Already-exported files.
	Failed    int    `json:"failed,omitempty"`     // Operations that failed.
	Verified  int    `json:"verified,omitempty"`   // Files that passed the closing pass.
	Mismatch  int    `json:"mismatched,omitempty"` // Files that failed verification.
}

// logPath returns the audit log location under the user config
// directory, or empty when no config directory is available.
func logPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "secstash", "audit.jsonl")
}

// Log appends an entry to the audit log.
// If logging fails, the operation is not disturbed: runs should not
// fail just because audit logging failed.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	path := logPath()
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	path := logPath()
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue // Skip malformed lines rather than losing the rest.
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}
