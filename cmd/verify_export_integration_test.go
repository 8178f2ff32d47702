package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifyExportCommandPasses(t *testing.T) {
	setupTestLogger(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	writeExportTree(t, root, map[string][]byte{
		"token.txt.age":                   []byte("ciphertext one"),
		filepath.Join("ssh", "key.age"):   []byte("ciphertext two"),
		filepath.Join("ssh", "other.age"): []byte("ciphertext three"),
	})

	output, err := captureOutput(func() error {
		RootCmd.SetArgs([]string{"verify-export", root, "--profile", "testprofile"})
		return RootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("verify-export failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "Verified") || !strings.Contains(output, "3") {
		t.Errorf("output missing verification summary: %s", output)
	}
}

func TestVerifyExportCommandDetectsMismatch(t *testing.T) {
	setupTestLogger(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	writeExportTree(t, root, map[string][]byte{
		"token.txt.age": []byte("ciphertext"),
	})
	if err := os.WriteFile(filepath.Join(root, "token.txt.age"), []byte("tampered"), 0600); err != nil {
		t.Fatalf("Failed to tamper with file: %v", err)
	}

	output, err := captureOutput(func() error {
		RootCmd.SetArgs([]string{"verify-export", root, "--profile", "testprofile"})
		return RootCmd.Execute()
	})
	if err == nil {
		t.Fatalf("expected verify-export to fail, output: %s", output)
	}
	if !strings.Contains(output, "token.txt.age") {
		t.Errorf("output does not name the mismatched file: %s", output)
	}
}
