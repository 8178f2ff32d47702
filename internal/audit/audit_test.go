package audit

import (
	"testing"
)

func TestLogAndReadEntries(t *testing.T) {
	// Point the user config dir at a temp dir so the test doesn't touch
	// the real audit log.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	Log(Entry{Operation: "export", Profile: "machine1", Root: "/backup", Completed: 3})
	Log(Entry{Operation: "import", Profile: "machine1", Root: "/backup", Failed: 1})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Operation != "export" || entries[0].Completed != 3 {
		t.Errorf("First entry = %+v", entries[0])
	}
	if entries[0].Timestamp == "" {
		t.Error("Timestamp not set automatically")
	}
	if entries[1].Failed != 1 {
		t.Errorf("Second entry = %+v", entries[1])
	}
}

func TestReadEntriesMissingLog(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}
