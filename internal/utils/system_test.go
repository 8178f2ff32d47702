package utils

import (
	"strings"
	"testing"
)

func TestDefaultProfile(t *testing.T) {
	profile, err := DefaultProfile()
	if err != nil {
		t.Fatalf("DefaultProfile failed: %v", err)
	}
	if profile == "" {
		t.Error("Expected non-empty profile")
	}
	if strings.Contains(profile, ".") {
		t.Errorf("Profile should not contain a domain suffix, got %q", profile)
	}
}
