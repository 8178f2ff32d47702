package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	serrors "github.com/secstash/secstash/internal/errors"
)

// writeConfig is a helper to write a config file into a temp dir.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadFileValid(t *testing.T) {
	path := writeConfig(t, `
[[exports.shared]]
source = "/secrets/common"
endpoint = "common"
files = ["ca.pem", "known_hosts"]

[[exports.machine1]]
source = "/secrets/$profile"
endpoint = "$profile/something"
files = ["secret1"]

[[imports.machine1]]
source = "/secrets/something"
endpoint = "machine1/something"
files = ["secret1"]
symlinks_to = "/etc/service"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(cfg.Exports[SharedProfile]) != 1 {
		t.Errorf("Expected 1 shared export rule, got %d", len(cfg.Exports[SharedProfile]))
	}
	if got := cfg.Exports[SharedProfile][0].Files; len(got) != 2 || got[0] != "ca.pem" {
		t.Errorf("Shared rule files = %v", got)
	}
	if cfg.Imports["machine1"][0].SymlinksTo != "/etc/service" {
		t.Errorf("symlinks_to not parsed: %+v", cfg.Imports["machine1"][0])
	}
}

func TestLoadFileRejectsAbsoluteEndpoint(t *testing.T) {
	path := writeConfig(t, `
[[exports.shared]]
source = "/secrets/common"
endpoint = "/common"
files = ["ca.pem"]
`)
	_, err := LoadFile(path)
	if !errors.Is(err, serrors.ErrInvalidConfig) {
		t.Errorf("LoadFile = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadFileRejectsParentTraversal(t *testing.T) {
	path := writeConfig(t, `
[[imports.machine1]]
source = "/secrets"
endpoint = "machine1"
files = ["../etc/passwd"]
`)
	_, err := LoadFile(path)
	if !errors.Is(err, serrors.ErrInvalidConfig) {
		t.Errorf("LoadFile = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadFileRejectsDuplicateFile(t *testing.T) {
	path := writeConfig(t, `
[[exports.machine1]]
source = "/secrets/something"
endpoint = "machine1/something"
files = ["secret1", "secret1"]
`)
	_, err := LoadFile(path)
	if !errors.Is(err, serrors.ErrInvalidConfig) {
		t.Errorf("LoadFile = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadFileRejectsMissingSource(t *testing.T) {
	path := writeConfig(t, `
[[exports.machine1]]
endpoint = "machine1/something"
files = ["secret1"]
`)
	_, err := LoadFile(path)
	if !errors.Is(err, serrors.ErrInvalidConfig) {
		t.Errorf("LoadFile = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadFileRejectsBadTOML(t *testing.T) {
	path := writeConfig(t, "[[[exports")
	_, err := LoadFile(path)
	if !errors.Is(err, serrors.ErrInvalidConfig) {
		t.Errorf("LoadFile = %v, want ErrInvalidConfig", err)
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	cfg := &Config{
		Exports: map[string][]Rule{
			SharedProfile: {{
				Source:   "/secrets/common",
				Endpoint: "common",
				Files:    []string{"ca.pem"},
			}},
		},
	}

	path := filepath.Join(t.TempDir(), "nested", FileName)
	if err := SaveTOML(path, cfg); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(loaded.Exports[SharedProfile]) != 1 || loaded.Exports[SharedProfile][0].Source != "/secrets/common" {
		t.Errorf("round trip lost rule data: %+v", loaded.Exports)
	}
}

func TestRuleWithNoFilesIsValid(t *testing.T) {
	// A rule that expands to zero operations signals "nothing to do",
	// not a config error.
	path := writeConfig(t, `
[[exports.machine1]]
source = "/secrets/something"
endpoint = "machine1/something"
files = []
`)
	if _, err := LoadFile(path); err != nil {
		t.Errorf("LoadFile failed for empty files list: %v", err)
	}
}
