package utils

import (
	"os"
	"testing"
)

func TestReadPassphraseRequiresTerminal(t *testing.T) {
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", os.DevNull, err)
	}
	defer devNull.Close()

	original := os.Stdin
	os.Stdin = devNull
	t.Cleanup(func() { os.Stdin = original })

	if IsTerminal() {
		t.Fatalf("IsTerminal() = true for %s", os.DevNull)
	}
	if _, err := ReadPassphrase("Passphrase: "); err == nil {
		t.Error("ReadPassphrase should refuse a non-terminal stdin")
	}
}
