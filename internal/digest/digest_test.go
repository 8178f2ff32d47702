package digest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSumDeterministic(t *testing.T) {
	data := []byte("API_KEY=hunter2\n")

	first := Sum(data)
	second := Sum(data)
	if !Equal(first, second) {
		t.Errorf("Sum is not deterministic: %s != %s", first.Hex(), second.Hex())
	}

	other := Sum([]byte("API_KEY=hunter3\n"))
	if Equal(first, other) {
		t.Errorf("distinct inputs produced the same digest: %s", first.Hex())
	}
}

func TestSumKnownVector(t *testing.T) {
	// sha256 of the empty string, per FIPS 180-4.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil).Hex(); got != want {
		t.Errorf("Sum(nil).Hex() = %s, want %s", got, want)
	}
}

func TestSumFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "secret1")
	content := []byte("top secret contents")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	fromFile, err := SumFile(path)
	if err != nil {
		t.Fatalf("SumFile failed: %v", err)
	}
	if !Equal(fromFile, Sum(content)) {
		t.Errorf("SumFile disagrees with Sum: %s != %s", fromFile.Hex(), Sum(content).Hex())
	}
}

func TestSumFileMissing(t *testing.T) {
	if _, err := SumFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestParseRoundTrip(t *testing.T) {
	v := Sum([]byte("round trip"))
	parsed, err := Parse(v.Hex())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !Equal(v, parsed) {
		t.Errorf("Parse(v.Hex()) = %s, want %s", parsed.Hex(), v.Hex())
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"abc",
		"zz" + Sum(nil).Hex()[2:], // right length, not hex
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q) should fail", c)
		}
	}
}
