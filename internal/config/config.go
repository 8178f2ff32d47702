package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	serrors "github.com/secstash/secstash/internal/errors"
)

// SharedProfile is the reserved profile whose rules apply to every machine.
const SharedProfile = "shared"

// FileName is the configuration file name.
const FileName = "secstash.toml"

// Rule maps a source directory to an endpoint directory for an ordered
// set of files, scoped to one profile.
type Rule struct {
	// Source is the directory holding the plaintext files. May contain
	// the literal token $profile.
	Source string `toml:"source"`

	// Endpoint is the directory inside the export tree, relative to the
	// export root. May contain the literal token $profile.
	Endpoint string `toml:"endpoint"`

	// Files are processed in declared order.
	Files []string `toml:"files"`

	// SymlinksTo, when set on an import rule, is the directory in which
	// a symlink is created for each imported file.
	SymlinksTo string `toml:"symlinks_to"`
}

// Config holds the declared export and import rule sets, keyed by
// profile name.
type Config struct {
	Exports map[string][]Rule `toml:"exports"`
	Imports map[string][]Rule `toml:"imports"`
}

// Validate checks every rule in the configuration. It returns an error
// wrapping ErrInvalidConfig on the first problem found.
func (c *Config) Validate() error {
	for _, group := range []struct {
		name  string
		rules map[string][]Rule
	}{
		{"exports", c.Exports},
		{"imports", c.Imports},
	} {
		for profile, rules := range group.rules {
			for i, rule := range rules {
				if err := rule.validate(); err != nil {
					return fmt.Errorf("%w: %s.%s rule %d: %v",
						serrors.ErrInvalidConfig, group.name, profile, i+1, err)
				}
			}
		}
	}
	return nil
}

func (r Rule) validate() error {
	if r.Source == "" {
		return fmt.Errorf("source must not be empty")
	}
	if r.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if err := checkRelativePath(r.Endpoint); err != nil {
		return fmt.Errorf("endpoint %q: %v", r.Endpoint, err)
	}
	seen := make(map[string]bool, len(r.Files))
	for _, f := range r.Files {
		if err := checkRelativePath(f); err != nil {
			return fmt.Errorf("file %q: %v", f, err)
		}
		if seen[f] {
			return fmt.Errorf("file %q declared multiple times", f)
		}
		seen[f] = true
	}
	return nil
}

// checkRelativePath rejects absolute or non-normalized paths. Endpoint
// and file paths are joined under user-supplied roots, so anything that
// could escape the root is refused up front.
func checkRelativePath(p string) error {
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("must be a relative path")
	}
	for _, component := range strings.Split(p, "/") {
		switch component {
		case "":
			return fmt.Errorf("contains an empty component")
		case ".":
			return fmt.Errorf("contains '.'")
		case "..":
			return fmt.Errorf("contains '..'")
		}
	}
	return nil
}

// Locate returns the path of the configuration file, preferring the
// user config directory over the current directory.
func Locate() (string, error) {
	if dir, err := os.UserConfigDir(); err == nil {
		user := filepath.Join(dir, "secstash", FileName)
		if _, err := os.Stat(user); err == nil {
			return user, nil
		}
	}

	local := FileName
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	return "", fmt.Errorf("%w: add %s to the current directory or to your user config directory",
		serrors.ErrConfigNotFound, FileName)
}

// Load locates, parses, and validates the configuration.
func Load() (*Config, error) {
	path, err := Locate()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile parses and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	if err := loadTOML(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", serrors.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
