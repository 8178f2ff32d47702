package utils

import (
	"os"
	"strings"
)

// DefaultProfile returns the profile used when --profile is not given:
// the machine's hostname, trimmed of any domain suffix.
func DefaultProfile() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(hostname, '.'); i > 0 {
		hostname = hostname[:i]
	}
	return hostname, nil
}
