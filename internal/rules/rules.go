package rules

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/secstash/secstash/internal/cipher"
	"github.com/secstash/secstash/internal/config"
	serrors "github.com/secstash/secstash/internal/errors"
)

// Direction selects which rule set a resolution draws from.
type Direction int

const (
	Export Direction = iota
	Import
)

func (d Direction) String() string {
	if d == Export {
		return "export"
	}
	return "import"
}

// profileToken is substituted with the active profile name in rule paths.
const profileToken = "$profile"

// Operation is one resolved file-level transfer. Immutable once
// resolved; the transfer engine consumes each operation exactly once.
type Operation struct {
	// SourcePath is the absolute plaintext path: read on export,
	// written on import.
	SourcePath string

	// EndpointPath is the ciphertext path relative to the export root,
	// including the .age extension.
	EndpointPath string

	// Action is the direction this operation was resolved for.
	Action Direction

	// SymlinkPath, when non-empty, is where a symlink pointing at
	// SourcePath is created after a successful import.
	SymlinkPath string
}

// Resolve expands the rule set for a profile into a concrete ordered
// operation list. Rules under the reserved "shared" profile are always
// included ahead of the profile-specific rules; files keep their
// declared order within each rule.
//
// A profile with neither shared nor specific rules is a configuration
// error. Rules that expand to zero operations are not: the caller
// reports success with nothing to do.
func Resolve(cfg *config.Config, profile string, direction Direction) ([]Operation, error) {
	groups := cfg.Exports
	if direction == Import {
		groups = cfg.Imports
	}

	shared, hasShared := groups[config.SharedProfile]
	specific, hasSpecific := groups[profile]
	if !hasShared && !hasSpecific {
		return nil, fmt.Errorf("%w: no %s rules for profile %q or %q",
			serrors.ErrUnknownProfile, direction, profile, config.SharedProfile)
	}

	var ops []Operation
	for _, rule := range append(append([]config.Rule{}, shared...), specific...) {
		source := substitute(rule.Source, profile)
		endpoint := substitute(rule.Endpoint, profile)
		symlinks := substitute(rule.SymlinksTo, profile)

		for _, file := range rule.Files {
			op := Operation{
				SourcePath:   filepath.Join(source, file),
				EndpointPath: filepath.Join(endpoint, file) + cipher.Ext,
				Action:       direction,
			}
			if direction == Import && symlinks != "" {
				op.SymlinkPath = filepath.Join(symlinks, file)
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func substitute(path, profile string) string {
	return strings.ReplaceAll(path, profileToken, profile)
}
